package cmd

import (
	"fmt"

	"github.com/philbennett94/planet-express/pkg/console"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=v1.2.3".
var Version = "dev"

// VersionInfo is the version command's output.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show version information.

Examples:
  cosmostoolbox version
  cosmostoolbox version -o json`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := console.ParseOutputFormat(cfg.Output)
	if err != nil {
		return err
	}
	if format == console.OutputTable {
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", Version)
		return nil
	}
	return formatter.Encode(&VersionInfo{Version: Version})
}
