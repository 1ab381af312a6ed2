package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifests"
	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

// keyInfo is the serializable form of one flattened key definition.
type keyInfo struct {
	Key        string `json:"key"`
	Type       string `json:"type,omitempty"`
	Require    string `json:"require,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

func newLookupCmd() *cobra.Command {
	var (
		jsonOutput bool
		offline    bool
		cacheDir   string
	)

	cmd := &cobra.Command{
		Use:   "lookup <payload-type>",
		Short: "Show the full key inventory for a payload type",
		Long:  "Look up a payload type's manifest and print every key it defines, including nested and array-item keys.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payloadType := args[0]

			cache, err := newCache(cacheDir, offline)
			if err != nil {
				return err
			}
			repoDir, err := cache.Ensure()
			if err != nil {
				return err
			}

			loader := manifests.New(repoDir)
			manifest, ok := loader.Resolve(payloadType)
			if !ok {
				return fmt.Errorf("no manifest found for %q", payloadType)
			}

			flattened := manifest.FlattenedKeys()
			keys := make([]string, 0, len(flattened))
			for k := range flattened {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			if jsonOutput {
				infos := make([]keyInfo, 0, len(keys))
				for _, k := range keys {
					def := flattened[k]
					infos = append(infos, keyInfo{
						Key:        k,
						Type:       def.Type,
						Require:    def.Require,
						Deprecated: def.Deprecated,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					PayloadType string    `json:"payload_type"`
					Title       string    `json:"title,omitempty"`
					Keys        []keyInfo `json:"keys"`
				}{payloadType, manifest.Title, infos})
			}

			if manifest.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", manifest.Title, payloadType)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), payloadType)
			}
			if version, ok := loader.Version(payloadType); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Manifest version: %d\n", version)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+describeKey(k, flattened[k]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&offline, "offline", false, "Don't attempt network operations")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")

	return cmd
}

func describeKey(path string, def domain.KeyDefinition) string {
	line := path
	if def.Type != "" {
		line += " (" + def.Type + ")"
	}
	if def.Require == domain.RequireAlways {
		line += " [required]"
	}
	if def.Deprecated {
		line += " [deprecated]"
	}
	return line
}
