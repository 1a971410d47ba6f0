package cli

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/artic-table/pkg/cache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errRedisDisabled is returned by cache commands when no Redis is configured.
var errRedisDisabled = errors.New("redis is disabled; set redis.enabled or ARTIC_REDIS_ENABLED=true")

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis response cache",
	}
	cmd.AddCommand(newCachePurgeCmd(a))
	return cmd
}

func newCachePurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove all cached catalog responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging()

			rdb := a.newRedis()
			if rdb == nil {
				return errRedisDisabled
			}
			defer rdb.Close()

			removed, err := cache.NewStore(rdb).Purge(cmd.Context())
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}

			log.Info().Int("removed", removed).Msg("Cache purged")
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached responses\n", removed)
			return nil
		},
	}
}
