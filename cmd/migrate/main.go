// Command migrate manages the order book schema for both sqlite and postgres.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/db"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/migrate"
)

// opener yields a migrated-against connection and its goose dialect.
type opener func(ctx context.Context) (*sql.DB, string, func() error, error)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openFromConfig).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or inspect the bundled goose migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, command := range []string{"up", "down", "status"} {
		root.AddCommand(&cobra.Command{
			Use:   command,
			Short: "goose " + command,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), open, func(sqlDB *sql.DB, dialect string) error {
					return migrate.Run(cmd.Context(), sqlDB, dialect, command)
				})
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "version <YYYYMMDDHHMMSS>",
		Short: "Migrate up or down to an exact version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), open, func(sqlDB *sql.DB, dialect string) error {
				return migrate.MigrateToVersion(cmd.Context(), sqlDB, dialect, args[0])
			})
		},
	})

	var dir string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Write an empty migration for every dialect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := migrate.CreateSQLMigration(dir, args[0], time.Now())
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), "created migration:", p)
			}
			return err
		},
	}
	create.Flags().StringVar(&dir, "dir", migrate.DefaultDir, "migrations source directory")
	root.AddCommand(create)

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check filenames, goose markers and dialect parity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrate.Validate(migrate.Migrations(), "migrations"); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		},
	})
	return root
}

func withDB(ctx context.Context, open opener, fn func(*sql.DB, string) error) error {
	sqlDB, dialect, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return fn(sqlDB, dialect)
}

func openFromConfig(ctx context.Context) (*sql.DB, string, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", nil, fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "db_driver": cfg.DB.Driver})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database unavailable", err)
		return nil, "", nil, err
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		_ = client.Close()
		return nil, "", nil, err
	}
	return sqlDB, client.Dialect(), client.Close, nil
}
