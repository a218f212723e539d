package main

import (
	"fmt"
	"log"
	"os"

	"github.com/acehadwer/storefront-backend/config"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/internal/app/service"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/acehadwer/storefront-backend/pkg/logger"
)

// seed loads a product catalogue from an XLSX workbook (the same layout the
// admin export produces) and bootstraps the admin account.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(&cfg.Admin); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer f.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	admin := service.NewProductAdminService(repository.NewProductRepository(db.GetDB()))
	report, result, err := admin.ImportProducts(f)
	if report != nil {
		for _, rowErr := range report.Errors {
			fmt.Printf("  row %d skipped (%s): %s\n", rowErr.Row, rowErr.Field, rowErr.Message)
		}
	}
	if err != nil {
		log.Fatal("Import failed: ", err)
	}

	fmt.Println(result.Message)
	fmt.Printf("Imported: %d, skipped: %d\n", report.Imported, report.Skipped)
}
