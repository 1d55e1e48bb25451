package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/assetlist/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, app.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "assetlist: %v\n", err)
		}
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Browsing is the default action; export,
// check and paths run without a terminal UI.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := app.Options{Stderr: stderr}

	root := &cobra.Command{
		Use:   "assetlist",
		Short: "Browse and edit asset catalogs as configurable tables",
		Long: `assetlist shows every object of one type from a YAML asset catalog as a
table whose columns are defined by a list file. Values can be sorted,
searched, edited in place and exported as tab separated text.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "config file path (default ~/.config/assetlist/config.toml)")
	pf.StringVar(&opts.PrefsPath, "prefs", "", "preferences file path (default ~/.config/assetlist/prefs.toml)")
	pf.StringVar(&opts.CatalogDir, "catalog", "", "catalog directory, overriding catalog_dir")
	pf.StringVar(&opts.ListsDir, "lists", "", "list configuration directory, overriding lists_dir")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	root.Flags().StringVarP(&opts.List, "list", "l", "", "list to open first (default: the last one browsed)")

	root.AddCommand(
		newExportCmd(&opts, stdout),
		newCheckCmd(&opts, stdout),
		newPathsCmd(&opts, stdout),
	)
	return root
}

func newExportCmd(opts *app.Options, stdout io.Writer) *cobra.Command {
	var eo app.ExportOptions
	cmd := &cobra.Command{
		Use:   "export LIST",
		Short: "Write a list as tab separated text",
		Long: `Export writes the header row and one line per object, in the order of the
given sort keys or else the sort last used in the browser.

Examples:
  assetlist export units
  assetlist export units --sort HP:desc --sort Name -o -
  assetlist export units --clipboard`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			eo.List = args[0]
			return app.Export(*opts, eo, stdout)
		},
	}
	cmd.Flags().StringArrayVarP(&eo.Sort, "sort", "s", nil, "sort key COLUMN[:asc|desc], primary first (repeatable)")
	cmd.Flags().StringVarP(&eo.Output, "output", "o", "", "output file, - for stdout (default: timestamped file in export_dir)")
	cmd.Flags().BoolVar(&eo.Clipboard, "clipboard", false, "copy to the clipboard instead of writing a file")
	return cmd
}

func newCheckCmd(opts *app.Options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every list against the catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Check(*opts, stdout)
		},
	}
}

func newPathsCmd(opts *app.Options, stdout io.Writer) *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "paths [TYPE]",
		Short: "Print the property tree of an object type",
		Long: `Paths prints every property path found on objects of TYPE. With --list the
type is taken from the list and the paths it already shows are marked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var typeName string
			if len(args) == 1 {
				typeName = args[0]
			}
			return app.Paths(*opts, typeName, list, stdout)
		},
	}
	cmd.Flags().StringVarP(&list, "list", "l", "", "mark the paths used by this list")
	return cmd
}
