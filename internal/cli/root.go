package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// errRequestFailed signals a failure outcome that has already been rendered.
var errRequestFailed = errors.New("request failed")

// NewRootCmd builds the naive command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "naive",
		Short:   "A naive HTTP client for quick requests from the terminal",
		Version: version,
		Long: `naive issues single HTTP requests, sorts query parameters into a
stable order, strips anti-hijacking prefixes from responses and treats any
status of 400 or above as a failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML or JSON config file")
	flags.StringP("output", "o", "text", "Output format: text, json, yaml or raw")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Show request, headers and timing")
	flags.DurationP("timeout", "t", 0, "Request timeout (overrides config)")
	flags.String("transport", "", "HTTP backend: net or resty (overrides config)")

	root.AddCommand(
		newGetCmd(),
		newHeadCmd(),
		newOptionsCmd(),
		newPostCmd(),
		newPutCmd(),
		newDeleteCmd(),
	)
	return root
}

// Execute runs the command line and reports any error on stderr.
// This is called by main.main().
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errRequestFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
