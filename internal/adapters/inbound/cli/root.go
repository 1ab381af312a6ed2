package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mcvalidate",
		Short:         "Validate mobileconfig files against ProfileManifests schemas",
		Long:          "mcvalidate checks Apple configuration profiles against the community ProfileManifests schema collection, reporting structural errors, deprecated keys, and out-of-range values.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
