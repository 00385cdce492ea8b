package app

import (
	"context"
	"log/slog"

	"github.com/presenttv/client/internal/config"
	"github.com/presenttv/client/internal/db"
	"github.com/presenttv/client/internal/present"
	"github.com/presenttv/client/internal/repositories"
	"github.com/presenttv/client/internal/sessions"
	"github.com/presenttv/client/internal/storage"
	"github.com/presenttv/client/internal/transport"
)

type dependencies struct {
	Client   *present.Client
	Sessions sessions.Store
	// Segments is nil unless an object store bucket is configured.
	Segments *storage.S3Storage
}

// buildDependencies wires together concrete implementations used by the commands.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (dependencies, func(), error) {
	bridge := transport.New(transport.Config{
		BaseURL:        cfg.API.BaseURL,
		UserAgent:      cfg.API.UserAgent,
		AcceptLanguage: cfg.API.AcceptLanguage,
		Timeout:        cfg.API.Timeout,
	}, nil, logger)

	deps := dependencies{
		Client: present.NewClient(bridge, logger),
	}
	cleanup := func() {}

	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return dependencies{}, nil, err
		}
		deps.Sessions = repositories.NewPostgresSessionStore(pool)
		cleanup = pool.Close
	} else {
		deps.Sessions = sessions.NewFileStore(cfg.SessionFile)
	}

	if cfg.ObjectStore.Enabled() {
		segments, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			cleanup()
			return dependencies{}, nil, err
		}
		deps.Segments = segments
	}

	return deps, cleanup, nil
}
