// Package root assembles the pgcatdiff CLI's top-level command, the way
// cmd/packagemigrator assembles ptah's.
package root

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nettrash/pgcatdiff/cmd/diff"
	"github.com/nettrash/pgcatdiff/cmd/dump"
)

const envPrefix = "PGCATDIFF"

var rootCmd = &cobra.Command{
	Use:   "pgcatdiff",
	Short: "Deterministic PostgreSQL catalog comparison and migration script generator",
	Long: `pgcatdiff compares two PostgreSQL schema snapshots — either dumped to a
dump.io archive or read live from a database — and generates the
idempotent SQL script that migrates one into the other.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute adds every subcommand to the root command and runs it. Called
// once by cmd/pgcatdiff's main.
func Execute(args ...string) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)

	rootCmd.SetArgs(args)
	rootCmd.AddCommand(dump.NewDumpCommand())
	rootCmd.AddCommand(diff.NewDiffCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1) //revive:disable-line:deep-exit
	}
}
