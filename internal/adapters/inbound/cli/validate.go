package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	configAdapter "github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/config"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifestcache"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifests"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/plist"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/tui"
	"github.com/Talieisin/mobileconfig-validator/internal/application"
)

func newValidateCmd() *cobra.Command {
	var (
		strict           bool
		warningsAsErrors bool
		format           string
		quiet            bool
		noColor          bool
		offline          bool
		cacheDir         string
	)

	cmd := &cobra.Command{
		Use:   "validate <file1> [file2] ...",
		Short: "Validate mobileconfig files",
		Long:  "Validate one or more mobileconfig files (glob patterns supported) against ProfileManifests schemas.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configAdapter.New().Load(".")
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cacheDir != "" {
				cfg.CacheDir = cacheDir
			}
			if offline {
				cfg.Offline = true
			}
			if !cmd.Flags().Changed("format") && cfg.Format != "" {
				format = cfg.Format
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q, use \"text\" or \"json\"", format)
			}

			files := expandPaths(args)
			if len(files) == 0 {
				return fmt.Errorf("no mobileconfig files found")
			}

			cache := manifestcache.New(cfg.CacheDir, cfg.MaxAgeDays, cfg.Offline)
			repoDir, err := cache.Ensure()
			if err != nil {
				return err
			}

			svc := application.NewValidateService(plist.New(), manifests.New(repoDir))
			batch := svc.ValidateFiles(files)

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(batch.Report()); err != nil {
					return err
				}
			} else {
				if noColor {
					lipgloss.SetColorProfile(termenv.Ascii)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer(quiet).RenderBatch(batch))
			}

			if strict && batch.ErrorCount() > 0 {
				return &ExitError{Code: 1, Msg: fmt.Sprintf("%d error(s) found", batch.ErrorCount())}
			}
			if warningsAsErrors && batch.WarningCount() > 0 {
				return &ExitError{Code: 1, Msg: fmt.Sprintf("%d warning(s) found", batch.WarningCount())}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&strict, "strict", "s", false, "Exit with code 1 if any errors found (for pre-commit/CI)")
	cmd.Flags().BoolVarP(&warningsAsErrors, "warnings-as-errors", "W", false, "Treat warnings as errors")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors, suppress warnings and info")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&offline, "offline", false, "Don't attempt network operations")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")

	return cmd
}

// expandPaths resolves glob patterns and filters the result down to
// existing .mobileconfig files (extension matched case-insensitively).
func expandPaths(patterns []string) []string {
	var candidates []string
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				continue
			}
			candidates = append(candidates, matches...)
		} else {
			candidates = append(candidates, pattern)
		}
	}

	var files []string
	for _, candidate := range candidates {
		if !strings.EqualFold(filepath.Ext(candidate), ".mobileconfig") {
			continue
		}
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}
		files = append(files, candidate)
	}
	return files
}

// exitCodeFor maps an Execute error to a process exit code: ExitError
// carries its own code, anything else is operational (2).
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*ExitError); ok {
		return ee.Code
	}
	return 2
}

// ExitCode runs the CLI and returns the process exit code.
func ExitCode() int {
	err := Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCodeFor(err)
}
