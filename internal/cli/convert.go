package cli

import (
	"path/filepath"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/JonMunkholm/tableman/internal/storage"
	"github.com/spf13/cobra"
)

// ConvertCmd rewrites a table file in the format of the output extension.
func ConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between csv, tsv and xlsx",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}
			if err := writeTable(cmd, args[1], t); err != nil {
				return err
			}
			cmd.Printf("wrote %s: %d rows, %d columns\n", baseName(args[1]), t.Len(), t.Width())
			return nil
		},
	}
}

// writeTable encodes t for path's extension and replaces path atomically.
func writeTable(cmd *cobra.Command, path string, t core.Table) error {
	format, err := core.DetectFormat(path)
	if err != nil {
		return err
	}
	data, err := core.Encode(t, format)
	if err != nil {
		return err
	}
	dir, err := storage.NewDir(filepath.Dir(path))
	if err != nil {
		return err
	}
	return dir.Write(cmd.Context(), filepath.Base(path), data)
}
