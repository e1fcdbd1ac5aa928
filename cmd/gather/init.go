package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/gather/internal/platform"
	"github.com/spf13/cobra"
)

const starterQuery = `# gather query file
sources:
  - name: local
    path: "data/**/*.json"
#  - name: db
#    driver: sqlite
#    dsn: jobs.db
#    query: SELECT id, title FROM jobs
#filters:
#  - field: remote
#    value: true
order:
  field: id
  direction: desc
limit: 0
`

var initForce bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter gather.yaml in the current directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		path := filepath.Join(cwd, platform.QueryFileNames[0])
		if _, err := os.Stat(path); err == nil && !initForce {
			fatal("Refusing to overwrite", errors.New(path+" already exists (use --force)"))
		}

		if err := os.WriteFile(path, []byte(starterQuery), 0o644); err != nil {
			fatal("Failed to write query file", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing query file")
}
