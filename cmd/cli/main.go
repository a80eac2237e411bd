// smstrace - SMS gateway log analysis tool
//
// smstrace reconstructs per-message lifecycles from the gateway's JSON-lines
// logs and reports delivery times, outcomes, missing deliveries, and daily
// reminder coverage.
package main

import (
	"os"

	"github.com/cmacnab/smstrace/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
