// Command csvview validates and prints CSV and TSV files from the terminal.
//
//	csvview show data.csv
//	csvview show --output json --header=false data.tsv
//	csvview check *.csv
//	csvview recent
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/csvview/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.fail.Render("Error:"), err)
		if core.IsUserFacing(err) {
			msg := core.MapError(err)
			fmt.Fprintln(os.Stderr, styles.muted.Render(fmt.Sprintf("%s (%s)", msg.Action, msg.Code)))
		}
		os.Exit(1)
	}
}
