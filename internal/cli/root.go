// Package cli wires the artic-table commands.
package cli

import (
	"fmt"
	"os"

	"github.com/Sternrassler/artic-table/internal/config"
	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd builds the command tree. Without a subcommand it opens the
// interactive table.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "artic-table",
		Short: "Browse and bulk-select artworks from the Art Institute of Chicago",
		Long: `artic-table pages through the Art Institute of Chicago artworks catalog.

Rows can be selected one by one, a page at a time, or in bulk by count:
a bulk selection walks consecutive pages from the current one until the
requested number of artworks is collected.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Logging.Level = a.logLevel
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrowse(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/artic-table/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	// Add subcommands
	cmd.AddCommand(newBrowseCmd(a))
	cmd.AddCommand(newSelectCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newCacheCmd(a))

	return cmd
}

// setupLogging configures the global logger to stderr.
func (a *app) setupLogging() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(a.cfg.Logging.Level),
		Pretty: a.cfg.Logging.Pretty,
		Output: os.Stderr,
	})
}

// newRedis returns the Redis client, or nil when Redis is disabled.
func (a *app) newRedis() *redis.Client {
	if !a.cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
}

// newCatalog creates the catalog client. The returned func releases it
// together with its Redis connection.
func (a *app) newCatalog() (*catalog.Client, func(), error) {
	rdb := a.newRedis()

	cc := a.cfg.Catalog()
	cc.Redis = rdb
	client, err := catalog.New(cc)
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, nil, fmt.Errorf("create catalog client: %w", err)
	}

	cleanup := func() {
		client.Close()
		if rdb != nil {
			rdb.Close()
		}
	}
	return client, cleanup, nil
}
