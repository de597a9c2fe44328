package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/naivehttp/http"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete URL",
		Short: "Make a DELETE request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod(http.MethodDelete),
	}
	addRequestFlags(cmd)
	addBodyFlags(cmd)
	return cmd
}
