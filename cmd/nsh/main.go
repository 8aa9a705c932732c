package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathara/nsh/cmd/nsh/app"
	"github.com/nathara/nsh/internal/errdebug"
	"github.com/nathara/nsh/internal/repl"
)

// Version information, set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	debugFlag   bool
	showVersion bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nsh: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "nsh",
	Short:         "An interactive POSIX-style shell with job control",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "write diagnostic output to stderr")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version information")
	rootCmd.AddCommand(app.Completion(rootCmd))
}

func run(cmd *cobra.Command, args []string) error {
	if showVersion {
		return app.ShowVersion(version, commit, date)
	}

	dbg := errdebug.New(os.Stderr, debugFlag)
	session := repl.New(os.Stdin, os.Stdout, dbg)
	session.Run()
	return nil
}
