// Package cmd implements the jsjit command-line interface, grounded on
// cmd/dwscript/cmd's cobra command tree (root.go's persistent-flag/
// version-template pattern, run.go's read-file/lex/parse/report pipeline).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jsjit",
	Short: "A JIT compiler for a TypeScript-flavored scripting core",
	Long: `jsjit lowers a small TypeScript-flavored language to LLVM IR and
runs it in-process via MCJIT.

Recognized constructs: const/let, assignment and compound assignment,
if/else if/else, switch/case/default, for/for...of/for...in/while,
function declarations, class/interface/type declarations (parsed only),
try/catch/throw (parsed only), import (parsed only), calls and member
access.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
