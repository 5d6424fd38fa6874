package daemon

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"studivio/internal/api"
	"studivio/internal/archive"
	"studivio/internal/auth"
	"studivio/internal/config"
	"studivio/internal/extract"
	"studivio/internal/ingest"
	"studivio/internal/notifications"
	"studivio/internal/services/assemblyai"
	"studivio/internal/services/llm"
	"studivio/internal/services/youtube"
	"studivio/internal/store"
)

type wiring struct {
	server  *api.Server
	purger  auth.Purger
	closers []io.Closer
}

func build(cfg *config.Config, st *store.Store, logger *slog.Logger) (wiring, error) {
	var w wiring

	var revocations auth.Revocations
	switch strings.ToLower(strings.TrimSpace(cfg.Auth.RevocationBackend)) {
	case "redis":
		client := auth.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		revocations = auth.NewRedisRevocations(client)
		w.closers = append(w.closers, client)
	default:
		sqlite := auth.NewSQLiteRevocations(st)
		revocations = sqlite
		w.purger = sqlite
	}

	ttl := time.Duration(cfg.Auth.AccessTokenMinutes) * time.Minute
	authSvc := auth.NewService(auth.NewIssuer(cfg.Auth.JWTSecret, ttl), revocations)

	archiver, err := archive.New(cfg)
	if err != nil {
		return w, fmt.Errorf("archive: %w", err)
	}

	pipeline := &ingest.Pipeline{
		Extractor:   extract.New(extract.LimitsFrom(cfg), logger),
		Transcriber: assemblyai.NewClient(assemblyai.ConfigFrom(cfg.AssemblyAI)),
		Summariser:  llm.NewClient(llm.ConfigFrom(cfg.GetLLM())),
		Transcripts: youtube.NewClient(cfg.YouTube),
		Notes:       st,
		Archive:     archiver,
		Notifier:    notifications.NewService(cfg),
		TempDir:     cfg.Paths.TempDir,
		Logger:      logger,
	}

	w.server = api.New(api.OptionsFrom(cfg), st, authSvc, pipeline, logger)
	return w, nil
}
