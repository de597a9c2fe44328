package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/naivehttp/http"
)

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put URL",
		Short: "Make a PUT request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod(http.MethodPut),
	}
	addRequestFlags(cmd)
	addBodyFlags(cmd)
	return cmd
}
