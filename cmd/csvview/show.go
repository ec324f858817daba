package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvview/internal/table"
)

type showOptions struct {
	parseOptions
	output string
	limit  int
}

func newShowCmd(root *rootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Parse a file and print it",
		Long: `Parse a file and print it as a table, JSON, CSV or TSV.

The delimiter comes from the extension (.csv comma, .tsv and .txt tab)
unless --delimiter is given. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSize, err := root.maxFileSize()
			if err != nil {
				return err
			}
			t, _, err := loadTable(args[0], cmd.InOrStdin(), opts.parseOptions, maxSize)
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), t, opts.output, opts.limit)
		},
	}

	cmd.Flags().BoolVar(&opts.header, "header", true, "treat the first row as a header")
	cmd.Flags().StringVarP(&opts.delimiter, "delimiter", "d", "", "delimiter: comma, tab, semicolon, pipe or one character")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json, csv or tsv")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "print at most this many rows (0 for all)")
	return cmd
}

func writeTable(w io.Writer, t *table.Table, output string, limit int) error {
	rows := t.Records()
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	switch output {
	case "table":
		_, err := fmt.Fprintln(w, renderTable(t.Header(), rows))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, styles.muted.Render(fmt.Sprintf("%d rows, %d columns", t.Rows(), t.Columns())))
		return err

	case "json":
		header := t.Header()
		if header == nil {
			header = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Header []string   `json:"header"`
			Rows   [][]string `json:"rows"`
		}{header, rows})

	case "csv", "tsv":
		delim := ','
		if output == "tsv" {
			delim = '\t'
		}
		out := table.New()
		out.SetHeader(t.Header())
		for _, r := range rows {
			out.AppendRow(r)
		}
		return out.Encode(w, delim)
	}
	return fmt.Errorf("unknown output format %q (want table, json, csv or tsv)", output)
}

func renderTable(header []string, rows [][]string) string {
	lt := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return styles.header
			}
			return styles.cell
		})
	if len(header) > 0 {
		lt = lt.Headers(header...)
	}
	return lt.Rows(rows...).String()
}
