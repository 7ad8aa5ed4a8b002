package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mugiliam/notecatalogsrv/internal/auth"
	"github.com/mugiliam/notecatalogsrv/internal/config"
	"github.com/mugiliam/notecatalogsrv/internal/seed"
	"github.com/mugiliam/notecatalogsrv/internal/server"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notesrv %s (api %s)\n", server.Version, api.ApiVersion_1_0)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := config.Config()
		if c.Auth.AdminPasswordHash == "" || c.Auth.TokenSecret == "" {
			log.Ctx(ctx).Warn().Msg("admin login is not configured, catalog changes are disabled")
		}

		closePool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer closePool()
		if c.DB.MigrateOnStart {
			if err := withStore(ctx, migrate); err != nil {
				return err
			}
		}

		s, err := server.CreateNewServer()
		if err != nil {
			return err
		}
		s.MountHandlers()
		return s.Serve(ctx, c.Server.ListenAddr, c.Server.ShutdownTimeout.Duration)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		closePool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer closePool()
		if err := withStore(ctx, migrate); err != nil {
			return err
		}
		fmt.Println("schema is up to date")
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog tree from a YAML file",
	Long: `Load titles, classes, subjects and chapters from a YAML file.
Entries that already exist are reused, so the same file can be applied
more than once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		closePool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer closePool()
		return withStore(ctx, func(ctx context.Context) error {
			if err := migrate(ctx); err != nil {
				return err
			}
			rep, err := seed.Apply(ctx, catalog)
			if rep != nil {
				out, _ := json.MarshalIndent(rep, "", "  ")
				fmt.Println(string(out))
			}
			return err
		})
	},
}

var hashFromStdin bool

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash of an admin password for auth.admin_password_hash",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		switch {
		case len(args) == 1:
			password = args[0]
		case hashFromStdin:
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		default:
			return fmt.Errorf("pass the password as an argument or use --stdin")
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML catalog file")
	_ = seedCmd.MarkFlagRequired("file")
	hashPasswordCmd.Flags().BoolVar(&hashFromStdin, "stdin", false, "read the password from stdin")
}
