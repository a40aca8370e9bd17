package commands

import (
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/identity"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Look up and register external ids",
}

var identityListCmd = &cobra.Command{
	Use:   "list <managed-object-id>",
	Short: "List the external ids of a managed object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ids, err := client.Identity.ListExternalIDs(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(ids)
	},
}

var identityResolveCmd = &cobra.Command{
	Use:   "resolve <type> <value>",
	Short: "Resolve one external id to its managed object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ext, err := client.Identity.GetExternalID(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(ext)
	},
}

var identityRegisterCmd = &cobra.Command{
	Use:   "register <managed-object-id> <type> <value>",
	Short: "Register an external id for a managed object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		created, err := client.Identity.CreateExternalID(cmd.Context(), args[0], &identity.ExternalID{
			Type:       args[1],
			ExternalID: args[2],
		})
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

func init() {
	identityCmd.AddCommand(identityListCmd)
	identityCmd.AddCommand(identityResolveCmd)
	identityCmd.AddCommand(identityRegisterCmd)
	rootCmd.AddCommand(identityCmd)
}
