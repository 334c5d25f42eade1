// Command import loads a JSON catalog file into the products table. Products
// whose id already exists are counted as already imported and skipped, so the
// import can be re-run safely.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"way2rare/internal/config"
	"way2rare/internal/database"
	"way2rare/internal/domain"
	"way2rare/internal/logger"
	"way2rare/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type catalogProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Current     *bool    `json:"current"`
	Image       []string `json:"image"`
	Sizes       []string `json:"sizes"`
}

func main() {
	catalogPath := flag.String("catalog", "catalog.json", "path to the JSON catalog file")
	flag.Parse()

	// Viper also reads .env; loading it here too keeps plain env lookups in
	// local tooling working.
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: no .env file loaded: %v\n", err)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	raw, err := os.ReadFile(*catalogPath)
	if err != nil {
		log.Fatal("Failed to read catalog file", zap.String("path", *catalogPath), zap.Error(err))
	}

	var catalog []catalogProduct
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Fatal("Failed to parse catalog file", zap.String("path", *catalogPath), zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.DSN(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db.Pool())

	imported, skipped := 0, 0
	for _, entry := range catalog {
		current := true
		if entry.Current != nil {
			current = *entry.Current
		}

		err := productRepo.Create(ctx, &domain.NewProduct{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Price:       entry.Price,
			Category:    entry.Category,
			Current:     current,
			Image:       entry.Image,
			Sizes:       entry.Sizes,
		})
		switch {
		case errors.Is(err, repository.ErrProductAlreadyExists):
			log.Info("Product already imported, skipping", zap.String("product_id", entry.ID))
			skipped++
		case err != nil:
			log.Fatal("Failed to import product", zap.String("product_id", entry.ID), zap.Error(err))
		default:
			log.Info("Product imported", zap.String("product_id", entry.ID), zap.String("name", entry.Name))
			imported++
		}
	}

	log.Info("Catalog import complete",
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
		zap.Int("total", len(catalog)),
	)
}
