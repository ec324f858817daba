package main

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csvview/internal/config"
	"github.com/JonMunkholm/csvview/internal/logging"
)

var styles = struct {
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	muted  lipgloss.Style
}{
	header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
	cell:   lipgloss.NewStyle().Padding(0, 1),
	border: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
	fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true),
	muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	logLevel  string
	logFormat string
	maxSize   string
}

// maxFileSize parses --max-size.
func (o *rootOptions) maxFileSize() (int64, error) {
	return config.ParseSize(o.maxSize)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "csvview",
		Short:         "Validate and view CSV and TSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&opts.maxSize, "max-size", "100MB", "largest file to read (e.g. 512KB, 100MB; 0 for no limit)")

	cmd.AddCommand(
		newShowCmd(opts),
		newCheckCmd(opts),
		newRecentCmd(),
	)
	return cmd
}
