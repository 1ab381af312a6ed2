package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	configAdapter "github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/config"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifestcache"
	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the ProfileManifests cache",
		Long:  "Inspect, update, or clear the local ProfileManifests checkout used for schema lookups.",
	}
	cmd.AddCommand(newCacheStatusCmd())
	cmd.AddCommand(newCacheUpdateCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

// newCache builds the cache adapter from config plus command overrides.
func newCache(cacheDir string, offline bool) (*manifestcache.Cache, error) {
	cfg, err := configAdapter.New().Load(".")
	if err != nil {
		cfg = domain.DefaultConfig()
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if offline {
		cfg.Offline = true
	}
	return manifestcache.New(cfg.CacheDir, cfg.MaxAgeDays, cfg.Offline), nil
}

func newCacheStatusCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := newCache(cacheDir, false)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cache.GetStatus())
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")
	return cmd
}

func newCacheUpdateCmd() *cobra.Command {
	var (
		cacheDir string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the ProfileManifests cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := newCache(cacheDir, false)
			if err != nil {
				return err
			}
			updated, err := cache.Update(force)
			if err != nil {
				return fmt.Errorf("updating cache: %w", err)
			}
			if updated {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache updated successfully")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is already up to date")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")
	cmd.Flags().BoolVar(&force, "force", true, "Update even if the cache is fresh")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached manifest data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := newCache(cacheDir, false)
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")
	return cmd
}
