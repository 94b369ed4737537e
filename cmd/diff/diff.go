// Package diff implements the `pgcatdiff diff` subcommand: load two
// catalog snapshots (each a dump.io archive or a live database DSN) and
// print the generated migration script.
package diff

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nettrash/pgcatdiff/archive"
	"github.com/nettrash/pgcatdiff/catalog"
	"github.com/nettrash/pgcatdiff/catalogreader/postgres"
	"github.com/nettrash/pgcatdiff/config"
	pgdiff "github.com/nettrash/pgcatdiff/diff"
)

const (
	fromFlag             = "from"
	toFlag               = "to"
	outFlag              = "out"
	useDropFlag          = "use-drop"
	ignoreExtensionsFlag = "ignore-extensions"
	configFlag           = "config"
)

var diffFlags = map[string]cobraflags.Flag{
	fromFlag: &cobraflags.StringFlag{
		Name:  fromFlag,
		Value: "",
		Usage: "Source: a dump.io archive path, or postgres://... for a live database (required)",
	},
	toFlag: &cobraflags.StringFlag{
		Name:  toFlag,
		Value: "",
		Usage: "Target: a dump.io archive path, or postgres://... for a live database (required)",
	},
	outFlag: &cobraflags.StringFlag{
		Name:  outFlag,
		Value: "",
		Usage: "File to write the generated script to; empty writes to stdout",
	},
	useDropFlag: &cobraflags.BoolFlag{
		Name:  useDropFlag,
		Value: false,
		Usage: "Emit destructive statements live instead of commented out",
	},
	ignoreExtensionsFlag: &cobraflags.StringFlag{
		Name:  ignoreExtensionsFlag,
		Value: "",
		Usage: "Comma-separated extension names to ignore, added to the defaults",
	},
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "Path to a .pgcatdiff.toml project config file",
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Generate a migration script between two catalog snapshots",
	Long: `Loads --from and --to, each either a dump.io archive produced by
"pgcatdiff dump" or a postgres:// connection string read live, and
prints the idempotent migration script that transforms --from into
--to.`,
	RunE: runDiff,
}

// NewDiffCommand wires the diff subcommand's flags and returns it for
// registration on the root command.
func NewDiffCommand() *cobra.Command {
	cobraflags.RegisterMap(diffCmd, diffFlags)
	return diffCmd
}

func runDiff(_ *cobra.Command, _ []string) error {
	from := diffFlags[fromFlag].GetString()
	to := diffFlags[toFlag].GetString()
	if from == "" || to == "" {
		return fmt.Errorf("both --from and --to are required")
	}

	opts := resolveOptions()

	fromSnap, err := loadSnapshot(from)
	if err != nil {
		return fmt.Errorf("failed to load --from %s: %w", from, err)
	}
	toSnap, err := loadSnapshot(to)
	if err != nil {
		return fmt.Errorf("failed to load --to %s: %w", to, err)
	}

	cmp := pgdiff.NewComparerWithConfig(fromSnap, toSnap, opts)
	if err := cmp.Compare(); err != nil {
		return fmt.Errorf("failed to compare schemas: %w", err)
	}

	script := cmp.Script()
	outPath := diffFlags[outFlag].GetString()
	if outPath == "" {
		fmt.Print(script)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write script to %s: %w", outPath, err)
	}
	fmt.Printf("Wrote migration script to %s\n", outPath)
	return nil
}

func resolveOptions() *config.CompareOptions {
	opts := config.DefaultCompareOptions()
	if path := diffFlags[configFlag].GetString(); path != "" {
		if fileOpts, err := config.LoadFile(path); err == nil {
			opts = fileOpts
		}
	}
	opts.UseDrop = diffFlags[useDropFlag].GetBool()
	if extra := diffFlags[ignoreExtensionsFlag].GetString(); extra != "" {
		for _, name := range strings.Split(extra, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				opts.IgnoredExtensions = append(opts.IgnoredExtensions, name)
			}
		}
	}
	return opts
}

// loadSnapshot accepts either a dump.io archive path or a postgres://
// connection string and resolves it to a catalog.Snapshot.
func loadSnapshot(ref string) (*catalog.Snapshot, error) {
	if strings.HasPrefix(ref, "postgres://") || strings.HasPrefix(ref, "postgresql://") {
		reader, err := postgres.Open(ref)
		if err != nil {
			return nil, err
		}
		defer func() { _ = reader.Close() }()
		return reader.ReadSnapshot()
	}

	manifest, err := archive.Read(afero.NewOsFs(), ref)
	if err != nil {
		return nil, err
	}
	return &manifest.Snapshot, nil
}
