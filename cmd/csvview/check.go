package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/csvview/internal/core"
	"github.com/JonMunkholm/csvview/internal/metrics"
)

type checkOptions struct {
	parseOptions
	jobs int
}

// checkResult is the outcome for one file.
type checkResult struct {
	path    string
	rows    int
	columns int
	err     error
}

// errCheckFailed is returned when any file is invalid; the per-file lines
// have already been printed.
var errCheckFailed = errors.New("check failed")

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate files without printing them",
		Long: `Validate one or more files concurrently and print one line per file.

Exits non-zero when any file fails to load or parse.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSize, err := root.maxFileSize()
			if err != nil {
				return err
			}
			results := checkFiles(cmd, args, opts, maxSize)
			return reportResults(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&opts.header, "header", true, "treat the first row as a header")
	cmd.Flags().StringVarP(&opts.delimiter, "delimiter", "d", "", "delimiter for every file (default: from extension)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "files to check at once")
	return cmd
}

// checkFiles validates paths with at most opts.jobs in flight. Results keep
// the order of paths.
func checkFiles(cmd *cobra.Command, paths []string, opts *checkOptions, maxSize int64) []checkResult {
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = checkResult{path: path, err: err}
				return nil
			}
			t, _, err := loadTable(path, cmd.InOrStdin(), opts.parseOptions, maxSize)
			res := checkResult{path: path, err: err}
			if err == nil {
				res.rows, res.columns = t.Rows(), t.Columns()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func reportResults(w io.Writer, results []checkResult) error {
	failed := 0
	for _, r := range results {
		if r.err == nil {
			fmt.Fprintf(w, "%s %s %s\n",
				styles.ok.Render("ok  "), r.path,
				styles.muted.Render(fmt.Sprintf("(%d rows, %d columns)", r.rows, r.columns)))
			continue
		}
		failed++
		code := core.MapError(r.err).Code
		fmt.Fprintf(w, "%s %s: %v %s\n",
			styles.fail.Render("FAIL"), r.path, r.err,
			styles.muted.Render(fmt.Sprintf("[%s %s]", code, metrics.Result(r.err))))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", errCheckFailed, failed, len(results))
	}
	return nil
}
