package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvview/internal/history"
)

type recentOptions struct {
	settings string
	verify   bool
	output   string
}

func newRecentCmd() *cobra.Command {
	opts := &recentOptions{}

	defaultPath := os.Getenv("SETTINGS_PATH")
	if defaultPath == "" {
		defaultPath = "settings.json"
	}

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := history.OpenFileStore(opts.settings, history.DefaultMaxRecentFiles, opts.verify)
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeRecent(cmd.OutOrStdout(), entries, opts.output)
		},
	}

	cmd.Flags().StringVar(&opts.settings, "settings", defaultPath, "settings file written by the server")
	cmd.Flags().BoolVar(&opts.verify, "verify", true, "hide files that no longer exist")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")
	return cmd
}

func writeRecent(w io.Writer, entries []history.Entry, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case "table":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, styles.muted.Render("No recent files."))
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			opened := ""
			if !e.OpenedAt.IsZero() {
				opened = e.OpenedAt.Local().Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{e.Path, opened, strconv.Itoa(e.Rows), strconv.Itoa(e.Columns)})
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"Path", "Opened", "Rows", "Columns"}, rows))
		return err
	}
	return fmt.Errorf("unknown output format %q (want table or json)", output)
}
