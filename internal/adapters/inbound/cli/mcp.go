package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/Talieisin/mobileconfig-validator/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the mcvalidate MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var (
		cacheDir string
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start mcvalidate MCP server (stdio)",
		Long:  "Start the mcvalidate MCP server using stdio transport. This lets AI assistants validate profiles and inspect manifests directly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpadapter.NewValidatorMCPServer(cacheDir, offline)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Custom cache directory")
	cmd.Flags().BoolVar(&offline, "offline", false, "Don't attempt network operations")

	return cmd
}
