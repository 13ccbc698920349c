// Command employee-importer pulls active employee records from the HRIS
// and loads them into the local employee table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hr-interviewer/internal/common/config"
	"hr-interviewer/internal/common/database"
	"hr-interviewer/internal/common/hris"
	"hr-interviewer/internal/common/logger"
	"hr-interviewer/internal/models"
	"hr-interviewer/internal/store/employees"
)

func main() {
	pageSize := flag.Int("page-size", 50, "HRIS page size")
	dryRun := flag.Bool("dry-run", false, "list records without inserting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger)

	if cfg.Integrations.HRIS.BaseURL == "" {
		log.Error("integrations.hris.base_url is not configured", nil)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.WithError(err).Error("Failed to connect to PostgreSQL", nil)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Ping(ctx); err != nil {
		log.WithError(err).Error("PostgreSQL ping failed", nil)
		os.Exit(1)
	}

	store := employees.NewStore(pg.DB, log)
	client := hris.NewClient(
		cfg.Integrations.HRIS.BaseURL,
		cfg.Integrations.HRIS.AuthToken,
		time.Duration(cfg.Integrations.HRIS.Timeout)*time.Millisecond,
	)

	imported, skipped, failed := 0, 0, 0

	for page := 1; ; page++ {
		records, err := client.ListEmployees(ctx, page, *pageSize)
		if err != nil {
			log.WithError(err).Error("HRIS listing failed", map[string]interface{}{"page": page})
			os.Exit(1)
		}
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			if !rec.Active {
				skipped++
				continue
			}

			if *dryRun {
				log.Info("Would import employee", map[string]interface{}{
					"external_id": rec.ExternalID,
					"name":        rec.FirstName + " " + rec.LastName,
					"position":    rec.Position,
				})
				imported++
				continue
			}

			_, err := store.Create(ctx, &models.CreateEmployeeInput{
				FirstName:       rec.FirstName,
				LastName:        rec.LastName,
				Position:        rec.Position,
				ExperienceLevel: rec.ExperienceLevel,
			})
			if err != nil {
				failed++
				log.WithError(err).Warn("Failed to import employee", map[string]interface{}{
					"external_id": rec.ExternalID,
				})
				continue
			}
			imported++
		}
	}

	log.Info("Import finished", map[string]interface{}{
		"imported": imported,
		"skipped":  skipped,
		"failed":   failed,
		"dry_run":  *dryRun,
	})

	if failed > 0 {
		os.Exit(1)
	}
}
