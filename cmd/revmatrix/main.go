// Command revmatrix groups drawing revisions, moves superseded files into a
// holding folder and keeps transmittal matrices up to date.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/revmatrix/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
