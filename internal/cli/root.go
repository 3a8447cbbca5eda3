// Package cli implements tablectl, a command line companion to the editor
// for inspecting, converting and merging table files.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/spf13/cobra"
)

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRoot().Execute()
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "tablectl",
		Short:         "Inspect, convert and merge csv, tsv and xlsx tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		ShowCmd(),
		ConvertCmd(),
		MergeCmd(),
	)
	return root
}

// readTable decodes a file, choosing the format from its extension.
func readTable(path string) (core.Table, error) {
	format, err := core.DetectFormat(path)
	if err != nil {
		return core.Table{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, fmt.Errorf("%w: %v", core.ErrIO, err)
	}
	defer f.Close()
	return core.DecodeReader(f, format, 0)
}

func baseName(path string) string { return filepath.Base(path) }
