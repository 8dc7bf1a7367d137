// Package main is the entry point for the packing-list-service application.
//
// @title           Packing List Service API
// @version         1.0.0
// @description     Builds shipping packing lists from a product catalog.
//
//	Aggregates package weights, validates lists, numbers packages and lays them out for export.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/packing-list-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @tag.name        Products
// @tag.description Product catalog and packaging variants
//
// @tag.name        HS Codes
// @tag.description Registered customs codes
//
// @tag.name        Packing Lists
// @tag.description Packing lists, totals and validation
//
// @tag.name        Packages
// @tag.description Pallets and carton ranges inside a packing list
//
// @tag.name        Export
// @tag.description Export layout and PDF rendering
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/packing-list-service/docs" // swagger docs

	"github.com/guttosm/packing-list-service/config"
	"github.com/guttosm/packing-list-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	runErr := server.Run(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Close(ctx)

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
