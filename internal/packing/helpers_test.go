package packing

import "github.com/guttosm/packing-list-service/internal/domain/model"

func widgetVariant() model.Variant {
	return model.Variant{
		ID:            "widget-default",
		Name:          "Carton 10",
		BoxQuantity:   10,
		BoxDimensions: model.Dimensions{Length: 30, Width: 20, Height: 15},
		Weights:       model.Weights{Gross: 5.5, Net: 5.0},
		IsDefault:     true,
	}
}

func gadgetVariant() model.Variant {
	return model.Variant{
		ID:            "gadget-small",
		Name:          "Carton 4",
		BoxQuantity:   4,
		BoxDimensions: model.Dimensions{Length: 40, Width: 30, Height: 20},
		Weights:       model.Weights{Gross: 2.0, Net: 1.5},
		IsDefault:     true,
	}
}

func item(name string, v model.Variant, qty float64) model.PackageItem {
	return model.PackageItem{
		Product:  model.ProductSnapshot{ID: name, Name: name, HSCode: "8481.80.85.90.00"},
		Variant:  v,
		Quantity: qty,
	}
}
