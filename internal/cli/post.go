package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/naivehttp/http"
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Make a POST request to the specified URL",
		Example: `  naive post https://httpbin.org/post -j '{"herp":"derp"}'
  naive post https://httpbin.org/post -d 'plain text' -H 'Content-Type: text/plain'`,
		Args: cobra.ExactArgs(1),
		RunE: runMethod(http.MethodPost),
	}
	addRequestFlags(cmd)
	addBodyFlags(cmd)
	return cmd
}
