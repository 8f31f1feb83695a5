package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"datamart-etl/config"
	"datamart-etl/models"
	"datamart-etl/pipeline"
	"datamart-etl/scraper/mydramalist"
	"datamart-etl/services"
	"datamart-etl/storage"
	"datamart-etl/utils"
)

// Destination table names and their write modes: amazon and product
// data append across runs, the review table is rewritten in full.
const (
	amazonTable  = "amazon_data"
	productTable = "product_data"
	reviewTable  = "mydramalist_data"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Datamart ETL pipeline starting ===")
	logger.Info("Config — scrape pages: %d | product file: %s | output: %s | concurrency: %d",
		cfg.ScrapePages, cfg.ProductFilePath, cfg.OutputDir, cfg.MaxConcurrency)

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		Logger:      logger,
	}

	source, err := storage.NewPostgresSource(cfg.SourceDSN(), retry)
	if err != nil {
		logger.Error("Failed to connect to source PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer source.Close()

	loader, err := storage.NewPostgresLoader(cfg.LoadDSN(), retry)
	if err != nil {
		logger.Error("Failed to connect to destination PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer loader.Close()

	runner := buildPipeline(cfg, logger, source, loader)

	if cfg.Schedule == "" {
		if !runOnce(logger, runner, loader) {
			os.Exit(1)
		}
		return
	}

	logger.Info("Scheduling pipeline with cron expression %q", cfg.Schedule)
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))
	if _, err := c.AddFunc(cfg.Schedule, func() {
		runOnce(logger, runner, loader)
	}); err != nil {
		logger.Error("Invalid PIPELINE_SCHEDULE %q: %v", cfg.Schedule, err)
		os.Exit(1)
	}
	c.Run()
}

// runOnce executes the full pipeline and records the run in the
// destination database. It reports whether the run succeeded.
func runOnce(logger *utils.Logger, runner *pipeline.Runner, loader storage.TableLoader) bool {
	run, err := runner.Run()

	if rerr := loader.RecordRun(run); rerr != nil {
		logger.Warn("Failed to record pipeline run %s: %v", run.ID, rerr)
	}

	if err != nil {
		logger.Error("Pipeline run failed: %v", err)
		return false
	}

	fmt.Printf("  Done. Run %s | Loaded tables → PostgreSQL (%s, %s, %s)\n\n",
		run.ID, amazonTable, productTable, reviewTable)
	return true
}

// buildPipeline wires the 8-step task graph. The three sources are
// independent branches that merge at validate and again at load; steps
// exchange data only through their stage CSV snapshots, which doubles
// as the skip cache.
func buildPipeline(cfg *config.Config, logger *utils.Logger, source storage.TableSource, loader storage.TableLoader) *pipeline.Runner {
	validator := services.NewValidator(logger)
	transformer := services.NewTransformer(logger)
	scraper := mydramalist.New(cfg, logger)

	stage := func(stage, name string) string {
		return filepath.Join(cfg.OutputDir, stage, name+".csv")
	}

	sources := []string{"amazon", "products", "reviews"}

	runner := pipeline.NewRunner(logger, cfg.ForceRerun, cfg.MaxConcurrency)

	runner.Add(pipeline.Step{
		Name:    "extract_amazon",
		Outputs: []string{stage("raw", "amazon")},
		Run: func() error {
			tbl, err := source.FetchTable(cfg.AmazonQuery)
			if err != nil {
				return err
			}
			return storage.WriteTable(stage("raw", "amazon"), tbl)
		},
	})

	runner.Add(pipeline.Step{
		Name:    "extract_products",
		Outputs: []string{stage("raw", "products")},
		Run: func() error {
			tbl, err := storage.ReadTable(cfg.ProductFilePath)
			if err != nil {
				return err
			}
			return storage.WriteTable(stage("raw", "products"), tbl)
		},
	})

	runner.Add(pipeline.Step{
		Name:    "extract_reviews",
		Outputs: []string{stage("raw", "reviews")},
		Run: func() error {
			tbl, err := scraper.Scrape()
			if err != nil {
				return err
			}
			return storage.WriteTable(stage("raw", "reviews"), tbl)
		},
	})

	validateOutputs := make([]string, len(sources))
	for i, name := range sources {
		validateOutputs[i] = stage("validate", name)
	}
	runner.Add(pipeline.Step{
		Name:    "validate",
		After:   []string{"extract_amazon", "extract_products", "extract_reviews"},
		Outputs: validateOutputs,
		Run: func() error {
			for _, name := range sources {
				tbl, err := storage.ReadTable(stage("raw", name))
				if err != nil {
					return err
				}
				tbl = validator.Validate(name, tbl)
				if err := storage.WriteTable(stage("validate", name), tbl); err != nil {
					return err
				}
			}
			return nil
		},
	})

	transformStep := func(name string, transform func(models.Table) models.Table) pipeline.Step {
		return pipeline.Step{
			Name:    "transform_" + name,
			After:   []string{"validate"},
			Outputs: []string{stage("transform", name)},
			Run: func() error {
				tbl, err := storage.ReadTable(stage("validate", name))
				if err != nil {
					return err
				}
				return storage.WriteTable(stage("transform", name), transform(tbl))
			},
		}
	}
	runner.Add(transformStep("amazon", transformer.TransformAmazon))
	runner.Add(transformStep("products", transformer.TransformProducts))
	runner.Add(transformStep("reviews", transformer.TransformReviews))

	loadOutputs := make([]string, len(sources))
	for i, name := range sources {
		loadOutputs[i] = stage("load", name)
	}
	runner.Add(pipeline.Step{
		Name:    "load",
		After:   []string{"transform_amazon", "transform_products", "transform_reviews"},
		Outputs: loadOutputs,
		Run: func() error {
			writes := []struct {
				name    string
				table   string
				persist func(string, models.Table) error
			}{
				{"amazon", amazonTable, loader.Append},
				{"products", productTable, loader.Append},
				{"reviews", reviewTable, loader.Replace},
			}

			for _, w := range writes {
				tbl, err := storage.ReadTable(stage("transform", w.name))
				if err != nil {
					return err
				}
				if err := w.persist(w.table, tbl); err != nil {
					return err
				}
				logger.Info("[load] %s: %d rows → %s", w.name, tbl.NumRows(), w.table)

				// The flat-file mirror is documentation, not a recovery
				// path: a failed snapshot write is logged and ignored.
				if err := storage.WriteTable(stage("load", w.name), tbl); err != nil {
					logger.Warn("[load] %s: snapshot write failed: %v", w.name, err)
				}
			}
			return nil
		},
	})

	return runner
}
