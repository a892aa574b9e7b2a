package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"beatsync/internal/analysiscache"
	"beatsync/internal/services"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the onset analysis cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openCache(ctx *commandContext) (*analysiscache.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := analysiscache.Open(cfg.Cache.Dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open", cfg.Cache.Dir, err)
	}
	return store, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			rows := [][]string{
				{"Database", stats.Path},
				{"Enabled", yesNo(cfg.Cache.Enabled)},
				{"Entries", strconv.Itoa(stats.Entries)},
				{"Onsets", strconv.Itoa(stats.Onsets)},
				{"Size", formatBytes(stats.SizeBytes)},
				{"Oldest", formatTime(stats.Oldest)},
				{"Newest", formatTime(stats.Newest)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{{header: "Field"}, {header: "Value"}}, rows))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached analyses\n", removed)
			return nil
		},
	}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
