// Package model defines the core domain entities for the packing list service.
package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pallet footprint in centimeters.
const (
	PalletLength = 80.0
	PalletWidth  = 120.0
)

// Dimensions describes a box or package size in centimeters.
//
// @Description Box or package dimensions in centimeters
type Dimensions struct {
	Length float64 `json:"length" bson:"length" example:"30"`
	Width  float64 `json:"width" bson:"width" example:"20"`
	Height float64 `json:"height" bson:"height" example:"15"`
}

// Volume returns the volume in cubic centimeters.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// CubicMeters returns the volume in cubic meters.
func (d Dimensions) CubicMeters() float64 {
	return d.Volume() / 1_000_000
}

// IsPositive reports whether all three sides are greater than zero.
func (d Dimensions) IsPositive() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// IsPalletFootprint reports whether the base matches the 80 x 120 pallet footprint.
func (d Dimensions) IsPalletFootprint() bool {
	return d.Length == PalletLength && d.Width == PalletWidth
}

// String renders "L × W × H" with one decimal per side.
func (d Dimensions) String() string {
	return fmt.Sprintf("%.1f × %.1f × %.1f", Round1(d.Length), Round1(d.Width), Round1(d.Height))
}

// Weights holds a gross/net weight pair in kilograms.
//
// @Description Gross and net weight in kilograms
type Weights struct {
	Gross float64 `json:"gross" bson:"gross" example:"5.5"`
	Net   float64 `json:"net" bson:"net" example:"5.0"`
}

// Round1 rounds to one decimal place, ties away from zero.
func Round1(x float64) float64 {
	return decimal.NewFromFloat(x).Round(1).InexactFloat64()
}
