package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/naivehttp/http"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Example: `  naive get https://httpbin.org/get -q herp=derp
  naive get https://example.com/feed --json --filter 'while(1);' --select items.0`,
		Args: cobra.ExactArgs(1),
		RunE: runMethod(http.MethodGet),
	}
	addRequestFlags(cmd)
	return cmd
}

func newHeadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head URL",
		Short: "Make a HEAD request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod(http.MethodHead),
	}
	addRequestFlags(cmd)
	return cmd
}

func newOptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options URL",
		Short: "Make an OPTIONS request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod(http.MethodOptions),
	}
	addRequestFlags(cmd)
	return cmd
}
