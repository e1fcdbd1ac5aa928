package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/gather"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gather",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gather version %s\n", strings.TrimSpace(gather.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
