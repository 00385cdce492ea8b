// Package app assembles the present command line client.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/presenttv/client/internal/config"
	"github.com/presenttv/client/internal/models"
	"github.com/presenttv/client/internal/present"
	"github.com/presenttv/client/internal/sessions"
)

// Run loads the configuration and executes the command named by args.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	c := &cli{
		cfg:    cfg,
		logger: logger,
		connect: func(ctx context.Context) (dependencies, func(), error) {
			return buildDependencies(ctx, cfg, logger)
		},
	}

	defer c.close()

	root := c.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// cli holds what the commands share. deps is filled on first use so commands
// that never talk to the API do not need a session store.
type cli struct {
	cfg     config.Config
	logger  *slog.Logger
	connect func(ctx context.Context) (dependencies, func(), error)

	deps    dependencies
	cleanup func()
	profile string
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "present",
		Short:         "Command line client for the Present video API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.ensureDependencies(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&c.profile, "profile", "p", c.cfg.Profile, "Session profile (default: $PRESENT_PROFILE)")

	root.AddCommand(
		c.loginCommand(),
		c.logoutCommand(),
		c.signupCommand(),
		c.meCommand(),
		c.updateCommand(),
		c.inviteCommand(),
		c.resetPasswordCommand(),
		c.userCommand(),
		c.usersCommand(),
		c.activitiesCommand(),
		c.videosCommand(),
		c.demandsCommand(),
		c.recordCommand(),
		c.migrateCommand(),
	)
	return root
}

func (c *cli) ensureDependencies(ctx context.Context) error {
	if c.deps.Client != nil {
		return nil
	}
	deps, cleanup, err := c.connect(ctx)
	if err != nil {
		return err
	}
	c.deps = deps
	c.cleanup = cleanup
	return nil
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

// session loads the stored login for the active profile.
func (c *cli) session(ctx context.Context) (*models.SessionContext, error) {
	sc, err := c.deps.Sessions.Find(ctx, c.profile)
	if errors.Is(err, sessions.ErrSessionNotFound) {
		return nil, fmt.Errorf("profile %q is not logged in; run present login", c.profile)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sc, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func pageFlags(cmd *cobra.Command, page *present.PageRequest) {
	cmd.Flags().IntVarP(&page.Limit, "limit", "l", present.DefaultPageLimit, "Items per page")
	cmd.Flags().IntVarP(&page.Cursor, "cursor", "c", 0, "Cursor returned by the previous page")
}

func userRefFlags(cmd *cobra.Command, ref *present.UserRef) {
	cmd.Flags().StringVar(&ref.ID, "id", "", "User id")
	cmd.Flags().StringVarP(&ref.Username, "username", "u", "", "Username")
}
