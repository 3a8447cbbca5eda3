package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/spf13/cobra"
)

// ShowCmd prints a table, optionally filtered and sorted.
func ShowCmd() *cobra.Command {
	var (
		sortBy string
		desc   bool
		where  []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a table file",
		Long: `Print a table file, optionally filtered and sorted.

Filters keep rows matching every --where clause:
  --where Name=alice,bob     value set
  --where Amount=10..250     inclusive numeric range`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0])
			if err != nil {
				return err
			}

			if len(where) > 0 {
				predicates, err := parseWhere(where)
				if err != nil {
					return err
				}
				if t, err = core.Filter(t, predicates); err != nil {
					return err
				}
			}
			if sortBy != "" {
				if t, err = core.Sort(t, sortBy, !desc); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), t, output)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by column")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringArrayVar(&where, "where", nil, "Filter clause COL=V1,V2 or COL=MIN..MAX (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, csv, tsv, json, yaml")
	return cmd
}

// parseWhere turns --where clauses into predicates. Values in a set are
// parsed like typed cells, so "3" matches the number 3.
func parseWhere(clauses []string) (map[string]core.Predicate, error) {
	out := make(map[string]core.Predicate, len(clauses))
	for _, clause := range clauses {
		col, expr, ok := strings.Cut(clause, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid --where %q: want COL=VALUES or COL=MIN..MAX", clause)
		}
		if _, dup := out[col]; dup {
			return nil, fmt.Errorf("invalid --where: column %q given twice", col)
		}

		if lo, hi, isRange := strings.Cut(expr, ".."); isRange {
			min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --where %q: bad minimum: %w", clause, err)
			}
			max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --where %q: bad maximum: %w", clause, err)
			}
			out[col] = core.Between(min, max)
			continue
		}

		var values []core.Value
		for _, v := range strings.Split(expr, ",") {
			values = append(values, core.ParseCell(strings.TrimSpace(v)))
		}
		out[col] = core.In(values...)
	}
	return out, nil
}
