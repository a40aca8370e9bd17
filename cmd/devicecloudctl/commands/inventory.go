package commands

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"inv"},
	Short:   "Manage managed objects",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed objects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := &inventory.ListOptions{}
		opts.Type, _ = cmd.Flags().GetString("type")
		opts.FragmentType, _ = cmd.Flags().GetString("fragment")
		opts.Query, _ = cmd.Flags().GetString("query")
		opts.PageSize, _ = cmd.Flags().GetInt("page-size")
		all, _ := cmd.Flags().GetBool("all")

		client, err := newClient()
		if err != nil {
			return err
		}

		if all {
			objects, err := client.Inventory.ListAllManagedObjects(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(objects)
		}

		page, err := client.Inventory.ListManagedObjects(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printJSON(page.ManagedObjects)
	},
}

var inventoryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one managed object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		mo, err := client.Inventory.GetManagedObject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(mo)
	},
}

var inventoryCreateCmd = &cobra.Command{
	Use:   "create <json>",
	Short: "Create a managed object from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mo inventory.ManagedObject
		if err := json.Unmarshal([]byte(args[0]), &mo); err != nil {
			return errors.Wrap(err, "invalid managed object JSON")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		created, err := client.Inventory.CreateManagedObject(cmd.Context(), &mo)
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

var inventoryUpdateCmd = &cobra.Command{
	Use:   "update <id> <json>",
	Short: "Apply a partial update to a managed object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var mo inventory.ManagedObject
		if err := json.Unmarshal([]byte(args[1]), &mo); err != nil {
			return errors.Wrap(err, "invalid managed object JSON")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		updated, err := client.Inventory.UpdateManagedObject(cmd.Context(), args[0], &mo)
		if err != nil {
			return err
		}
		return printJSON(updated)
	},
}

var inventoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a managed object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Inventory.DeleteManagedObject(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf("deleted managed object %s", args[0])
		return nil
	},
}

func init() {
	inventoryListCmd.Flags().String("type", "", "filter by managed object type")
	inventoryListCmd.Flags().String("fragment", "", "filter by fragment type")
	inventoryListCmd.Flags().String("query", "", "inventory query expression")
	inventoryListCmd.Flags().Int("page-size", inventory.DefaultPageSize, "page size")
	inventoryListCmd.Flags().Bool("all", false, "follow next links and return every page")

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryGetCmd)
	inventoryCmd.AddCommand(inventoryCreateCmd)
	inventoryCmd.AddCommand(inventoryUpdateCmd)
	inventoryCmd.AddCommand(inventoryDeleteCmd)
	rootCmd.AddCommand(inventoryCmd)
}
