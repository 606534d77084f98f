// Command automata-cli is the command line tool for managing tasks and
// workflows through the REST adapter.
//
// Usage:
//
//	automata [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Commands:
//
//	task      Manage tasks
//	workflow  Execute and inspect workflows
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/cli"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "automata",
		Short:         "Orchestrator CLI — multi-agent task and workflow tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8083", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewTaskCmd(clientFn, outputFn),
		cli.NewWorkflowCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
