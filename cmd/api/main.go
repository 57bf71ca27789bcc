package main

import (
	"log"
	"os"

	"quotelens/app"
	"quotelens/internal/config"
	"quotelens/ui"
)

func main() {
	cfg := config.Load()
	service := app.NewQuoteService(cfg.LLM, cfg.Thresholds)

	if path := os.Getenv("QUOTES_FILE"); path != "" {
		summary, err := service.LoadDatasetFromFile(path)
		if err != nil {
			log.Fatalf("[API] Failed to load %s: %v", path, err)
		}
		log.Printf("[API] Preloaded %d quotes from %s", summary.TotalRecords, path)
	}

	server := ui.NewApp(service)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("[API] Server failed: %v", err)
	}
}
