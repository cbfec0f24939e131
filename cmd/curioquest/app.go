// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/curioquest/internal/assistant"
	"github.com/pdiddy/curioquest/internal/container"
	"github.com/pdiddy/curioquest/internal/convert"
	"github.com/pdiddy/curioquest/internal/generate"
	"github.com/pdiddy/curioquest/internal/library"
	"github.com/pdiddy/curioquest/internal/logging"
	"github.com/pdiddy/curioquest/internal/search"
	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/internal/worker"
	"github.com/pdiddy/curioquest/pkg/types"
)

// app holds the components built once at startup and shared by every request.
type app struct {
	cfg       types.AppConfig
	log       *slog.Logger
	queue     *worker.Queue
	cache     *library.Store
	extractor *convert.Extractor
	svc       *assistant.Service
}

func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)

	conv, err := convert.New(cfg.Extraction, container.DetectRuntime)
	if err != nil {
		return nil, fmt.Errorf("extraction backend: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	opts := []convert.Option{convert.WithLogger(log)}
	if cfg.Extraction.CacheDSN != "" {
		a.cache, err = library.NewStore(cfg.Extraction.CacheDSN)
		if err != nil {
			return nil, fmt.Errorf("text cache: %w", err)
		}
		if err := pruneCache(context.Background(), a.cache, cfg.Extraction.CacheTTL, time.Now(), log); err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, convert.WithCache(a.cache))
	}
	a.extractor = convert.NewExtractor(conv, &http.Client{Timeout: cfg.Extraction.Timeout}, cfg.Extraction, opts...)

	backend, err := generate.NewBackend(cfg.Model)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("model backend: %w", err)
	}
	gen := generate.New(backend, cfg.Model, generate.WithLogger(log))

	source := &search.ArxivSource{
		Client: &http.Client{Timeout: cfg.Search.Timeout},
		Config: cfg.Search,
	}

	a.queue = worker.NewQueue(cfg.Model.Workers, cfg.Model.QueueDepth)
	a.svc = assistant.New(source, a.extractor, gen, a.queue, assistant.WithLogger(log))

	log.Debug("components ready",
		"extractor", conv.Name(),
		"model_backend", gen.Backend(),
		"workers", cfg.Model.Workers)
	return a, nil
}

// pruneCache drops cached documents extracted more than ttl before now.
// A zero ttl keeps everything.
func pruneCache(ctx context.Context, cache *library.Store, ttl time.Duration, now time.Time, log *slog.Logger) error {
	if ttl <= 0 {
		return nil
	}
	n, err := cache.Prune(ctx, now.Add(-ttl))
	if err != nil {
		return fmt.Errorf("text cache: %w", err)
	}
	if n > 0 {
		log.Info("pruned text cache", "removed", n, "ttl", ttl)
	}
	return nil
}

// Close stops the worker queue and closes the text cache.
func (a *app) Close() {
	if a.queue != nil {
		a.queue.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("closing text cache", "error", err)
		}
	}
}

// loadDocument makes the PDF at url or file the session's upload.
func loadDocument(ctx context.Context, a *app, st *session.State, url, file string) error {
	switch {
	case url != "" && file != "":
		return fmt.Errorf("use either --url or --file, not both")
	case url != "":
		_, err := a.svc.Fetch(ctx, st, url)
		return err
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		_, err = a.svc.Upload(ctx, st, filepath.Base(file), data)
		return err
	}
	return fmt.Errorf("one of --url or --file is required")
}
