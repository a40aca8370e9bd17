package commands

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/smartrule"
)

var smartRulesCmd = &cobra.Command{
	Use:   "smartrules",
	Short: "Manage smart rules",
}

var smartRulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List smart rules, tenant-wide or for one managed object",
	RunE: func(cmd *cobra.Command, _ []string) error {
		managedObjectID, err := cmd.Flags().GetString("managed-object")
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		var rules []smartrule.SmartRule
		if managedObjectID != "" {
			rules, err = client.SmartRules.ListForManagedObject(cmd.Context(), managedObjectID)
		} else {
			rules, err = client.SmartRules.ListSmartRules(cmd.Context())
		}
		if err != nil {
			return err
		}
		return printJSON(rules)
	},
}

var smartRulesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one smart rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		rule, err := client.SmartRules.GetSmartRule(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(rule)
	},
}

var smartRulesCreateCmd = &cobra.Command{
	Use:   "create <json>",
	Short: "Create a smart rule from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		managedObjectID, err := cmd.Flags().GetString("managed-object")
		if err != nil {
			return err
		}

		var rule smartrule.SmartRule
		if err := json.Unmarshal([]byte(args[0]), &rule); err != nil {
			return errors.Wrap(err, "invalid smart rule JSON")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		var created *smartrule.SmartRule
		if managedObjectID != "" {
			created, err = client.SmartRules.CreateForManagedObject(cmd.Context(), managedObjectID, &rule)
		} else {
			created, err = client.SmartRules.CreateSmartRule(cmd.Context(), &rule)
		}
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

var smartRulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a smart rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.SmartRules.DeleteSmartRule(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf("deleted smart rule %s", args[0])
		return nil
	},
}

func init() {
	smartRulesListCmd.Flags().String("managed-object", "", "list rules attached to this managed object")
	smartRulesCreateCmd.Flags().String("managed-object", "", "attach the rule to this managed object")

	smartRulesCmd.AddCommand(smartRulesListCmd)
	smartRulesCmd.AddCommand(smartRulesGetCmd)
	smartRulesCmd.AddCommand(smartRulesCreateCmd)
	smartRulesCmd.AddCommand(smartRulesDeleteCmd)
	rootCmd.AddCommand(smartRulesCmd)
}
