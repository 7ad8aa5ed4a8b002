// Package main provides the notesrv command: the note catalog HTTP server and its
// maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mugiliam/notecatalogsrv/internal/config"
	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notesrv",
	Short: "notesrv serves a catalog of study notes",
	Long: `notesrv serves a catalog of study notes organised as
titles, classes, subjects and chapters, each chapter linking to a
document on Google Drive.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("NOTESRV_CONFIG"), "config file (TOML)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case versionCmd.Name(), hashPasswordCmd.Name():
		return nil
	}
	c, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return config.SetupLogger(c.Log)
}

// openPool opens the configured database pool and installs it process wide.
func openPool(ctx context.Context) (func(), error) {
	c := config.Config().DB
	pool, err := dbmanager.NewScopedDb(ctx, dbmanager.Options{
		Driver:          c.Driver,
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime.Duration,
	})
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	db.Init(pool)
	return func() {
		db.Init(nil)
		if err := pool.Close(); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("closing database pool")
		}
	}, nil
}

// withStore runs fn with a context bound to one pooled connection.
func withStore(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = db.ConnCtx(ctx)
	store := db.DB(ctx)
	if store == nil {
		return fmt.Errorf("unable to acquire a database connection")
	}
	defer store.Close(ctx)
	return fn(ctx)
}

func migrate(ctx context.Context) error {
	if err := db.DB(ctx).Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	return log.Logger.WithContext(cmd.Context())
}
