package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
)

type config struct {
	port        string
	projectID   string
	region      string
	model       string
	maxGridSize int
}

func loadConfig() config {
	cfg := config{
		port:        os.Getenv("PORT"),
		projectID:   os.Getenv("GCP_PROJECT_ID"),
		region:      os.Getenv("GCP_REGION"),
		model:       os.Getenv("GEMINI_MODEL"),
		maxGridSize: defaultMaxGridSize,
	}
	if cfg.port == "" {
		cfg.port = "8080"
	}
	if v := os.Getenv("MAX_GRID_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("MAX_GRID_SIZE invalide : %q", v)
		}
		cfg.maxGridSize = n
	}
	return cfg
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	var gemini *GeminiClient
	if cfg.projectID != "" {
		var err error
		gemini, err = NewGeminiClient(ctx, cfg.projectID, cfg.region, cfg.model)
		if err != nil {
			log.Fatalf("Impossible d'initialiser Gemini : %v", err)
		}
		defer gemini.Close()
		log.Printf("Client Gemini initialisé (projet: %s)", cfg.projectID)
	} else {
		log.Println("GCP_PROJECT_ID non défini — import de photo désactivé")
	}

	srv := NewServer(NewStore(), gemini)
	srv.maxGridSize = cfg.maxGridSize

	log.Printf("Serveur démarré sur http://localhost:%s", cfg.port)
	if err := http.ListenAndServe(":"+cfg.port, srv); err != nil {
		log.Fatal(err)
	}
}
