// Command storefront browses the catalog and edits a local device cart.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/moda-storefront/internal/cart"
	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/db"
	pkgerrors "github.com/angelmondragon/moda-storefront/pkg/errors"
	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/migrate"
	"github.com/angelmondragon/moda-storefront/pkg/redis"
)

// app holds the services a command needs.
type app struct {
	catalog *catalog.Resolver
	carts   cart.Service
	closers []func() error
}

func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}

type appBuilder func(ctx context.Context, offline bool) (*app, error)

type globalFlags struct {
	profile string
	offline bool
	json    bool
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(buildApp).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		os.Exit(1)
	}
}

func newRootCmd(build appBuilder) *cobra.Command {
	flags := &globalFlags{}
	var current *app

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the moda catalog and manage a device cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := cart.NormalizeProfile(flags.profile); err != nil {
				return err
			}
			a, err := build(cmd.Context(), flags.offline)
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if current == nil {
				return nil
			}
			return current.Close()
		},
	}
	root.PersistentFlags().StringVarP(&flags.profile, "profile", "p", cart.DefaultProfile, "device profile whose cart is used")
	root.PersistentFlags().BoolVar(&flags.offline, "offline", false, "skip the remote catalog and use the bundled dataset")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "print JSON instead of tables")

	get := func() *app { return current }
	root.AddCommand(newProductsCmd(get, flags), newCartCmd(get, flags))
	return root
}

// buildApp wires config, logging and storage the same way the API does. Logs
// go to stderr so stdout stays machine readable.
func buildApp(ctx context.Context, offline bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if offline {
		cfg.Catalog.ForceOffline = true
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Output:      os.Stderr,
	})

	a := &app{}
	backends := kvstore.Backends{}
	switch cfg.Cart.StorageDriver {
	case config.StorageRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		backends.Redis = client
	case config.StorageSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = a.Close()
			return nil, err
		}
		backends.DB = client
	}

	kv, err := kvstore.Open(cfg.Cart, backends)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	resolver, err := catalog.NewDefaultResolver(cfg.Catalog, logg, nil)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	carts, err := cart.NewService(cart.NewRegistry(kv, cfg.Cart.StorageKey, logg, nil), resolver)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.catalog = resolver
	a.carts = carts
	return a, nil
}

// userMessage prefers the shopper facing message of typed errors.
func userMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return err.Error()
}
