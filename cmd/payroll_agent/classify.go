package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/payroll-analysis/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify department names or job titles",
	Long: `Buckets each argument with the department or title keyword table and prints the category
and its rank (0 is highest). With --list, prints the table's categories instead.`,
	RunE: runClassify,
}

var (
	classifyKind string
	classifyList bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyKind, "kind", "k", "title", "Table to use: title or department")
	classifyCmd.Flags().BoolVar(&classifyList, "list", false, "List the categories of the table")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	tables, err := loadTables()
	if err != nil {
		return err
	}

	var table *classify.Table
	switch strings.ToLower(classifyKind) {
	case "title", "titles":
		table = tables.Titles
	case "department", "departments":
		table = tables.Departments
	default:
		return fmt.Errorf("unknown --kind %q (use title or department)", classifyKind)
	}

	out := cmd.OutOrStdout()
	if classifyList {
		for i, c := range table.Categories() {
			_, _ = fmt.Fprintf(out, "%d\t%s\n", i, c)
		}
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("nothing to classify: pass one or more values or use --list")
	}

	for _, text := range args {
		category, rank := table.ClassifyRank(text)
		_, _ = fmt.Fprintf(out, "%s\t%s\t%d\n", text, category, rank)
	}
	return nil
}
