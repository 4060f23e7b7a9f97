package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hooaah/yacht-manuals/constants"
	"github.com/hooaah/yacht-manuals/internal/common"
	"github.com/hooaah/yacht-manuals/internal/extract"
	"github.com/hooaah/yacht-manuals/internal/llm/gemini"
	"github.com/hooaah/yacht-manuals/internal/pipeline"
	"github.com/hooaah/yacht-manuals/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of manual documents to ingest (required unless --file is given)")
		file    = flag.String("file", "", "single manual document to ingest")
		dataDir = flag.String("data", "", "collection data directory (overrides DATA_DIR)")
	)
	flag.Parse()

	if *dir == "" && *file == "" {
		printError("Error: --dir or --file is required\n")
		os.Exit(1)
	}

	// Best effort; a missing .env just means the environment is already set.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
	}, logger)
	logger.Info("reasoning client initialized", "model", cfg.LLM.Model)

	extractor := extract.NewExtractor(cfg.OCR, logger)
	stores := repository.NewStores(cfg.Data.Dir, logger)

	var jobs repository.JobsRepository
	if cfg.Journal.Path != "" {
		var err error
		jobs, err = repository.NewJobsRepository(cfg.Journal.Path, logger)
		if err != nil {
			logger.Error("failed to open ingestion journal", "path", cfg.Journal.Path, "error", err)
			os.Exit(1)
		}
		defer jobs.Close()
	}

	processor := pipeline.NewProcessor(extractor, client, stores, jobs, logger)

	files, err := collectFiles(*dir, *file)
	if err != nil {
		logger.Error("failed to scan input", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Warn("no supported documents found", "dir", *dir)
		return
	}

	var processed, failed, warnings int
	for _, path := range files {
		res, err := processor.Ingest(ctx, path)
		if err != nil {
			failed++
			logger.Error("ingestion failed", "file", path, "error", err)
			if errors.Is(err, common.ErrParseFailure) && res != nil {
				logger.Warn("raw reply kept for manual review",
					"file", path,
					"raw_chars", len(res.Record.RawResponse))
			}
			continue
		}
		processed++
		warnings += len(res.Warnings)
		for _, w := range res.Warnings {
			logger.Warn("ingestion warning", "file", path, "warning", w)
		}
	}

	logger.Info("batch ingestion complete",
		"scanned", len(files),
		"processed", processed,
		"failed", failed,
		"warnings", warnings,
		"data_dir", cfg.Data.Dir)
}

// collectFiles gathers ingestion candidates, skipping hidden files and
// unsupported extensions.
func collectFiles(dir, single string) ([]string, error) {
	var files []string
	if single != "" {
		files = append(files, single)
	}
	if dir == "" {
		return files, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if constants.MapExtToFormat(filepath.Ext(path)) == "" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
