// Command jsjit is the CLI entry point for the jsjit compiler/runtime.
package main

import (
	"fmt"
	"os"

	"github.com/jsjit/jsjit/cmd/jsjit/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
