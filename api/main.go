// @title Marketplace Chat
// @version 0.1
// @description Buyer and seller chat for marketplace listings.

// @host localhost:8080
// @BasePath /api
// @query.collection.format multi
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	_ "tush00nka/marketplace_chat/docs"
	"tush00nka/marketplace_chat/internal/app"
	"tush00nka/marketplace_chat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
