package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/spf13/cobra"
)

// MergeCmd appends INCOMING to BASE the way the editor's import does.
func MergeCmd() *cobra.Command {
	var (
		policyName string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "merge BASE INCOMING",
		Short: "Append one table file to another",
		Long: `Append the rows of INCOMING to BASE.

When the columns differ a policy is required:
  align   keep BASE's columns, dropping incoming-only columns
  union   add incoming-only columns, filling gaps with nulls

Without -o the merged table is printed as csv.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := core.ParsePolicy(policyName)
			if err != nil {
				return err
			}
			base, err := readTable(args[0])
			if err != nil {
				return err
			}
			incoming, err := readTable(args[1])
			if err != nil {
				return err
			}

			merged, err := core.Reconcile(base, incoming, policy)
			if errors.Is(err, core.ErrReconciliationRequired) {
				return mismatchHelp(base, incoming, err)
			}
			if err != nil {
				return err
			}

			if out == "" {
				return render(cmd.OutOrStdout(), merged, "csv")
			}
			if err := writeTable(cmd, out, merged); err != nil {
				return err
			}
			cmd.Printf("wrote %s: %d rows, %d columns\n", baseName(out), merged.Len(), merged.Width())
			return nil
		},
	}
	cmd.Flags().StringVar(&policyName, "policy", "", "Column policy when headers differ: align or union")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the merged table to this file")
	return cmd
}

func mismatchHelp(base, incoming core.Table, err error) error {
	p := core.PreviewImport(base, incoming)
	var b strings.Builder
	if len(p.MissingFromIncoming) > 0 {
		fmt.Fprintf(&b, "  only in base:     %s\n", strings.Join(p.MissingFromIncoming, ", "))
	}
	if len(p.IncomingOnly) > 0 {
		fmt.Fprintf(&b, "  only in incoming: %s\n", strings.Join(p.IncomingOnly, ", "))
	}
	for _, r := range p.Results {
		fmt.Fprintf(&b, "  --policy %-6s -> %d rows, columns %s\n", r.Policy, r.Rows, strings.Join(r.Columns, ", "))
	}
	return fmt.Errorf("%w\n%s", err, strings.TrimRight(b.String(), "\n"))
}
