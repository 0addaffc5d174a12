// Command smoketest checks a local star-shell installation and prints a
// pass/fail transcript. It always exits 0; the transcript is the result.
package main

import (
	"context"
	"os"

	"github.com/kcaldas/star-shell/cmd/di"
)

func main() {
	di.InitializeSmokeRunner(os.Stdout).RunAllChecks(context.Background())
}
