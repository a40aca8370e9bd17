package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/application"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Manage the tenant's applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all applications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		apps, err := client.Applications.ListApplications(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(apps)
	},
}

var applicationsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		app, err := client.Applications.GetApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var applicationsFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find an application by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		app, err := client.Applications.FindByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if app == nil {
			return errors.Newf("no application named %q", args[0])
		}
		return printJSON(app)
	},
}

var applicationsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appType, err := cmd.Flags().GetString("type")
		if err != nil {
			return err
		}
		contextPath, err := cmd.Flags().GetString("context-path")
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		created, err := client.Applications.CreateApplication(cmd.Context(), &application.Application{
			Name:        args[0],
			Key:         args[0] + "-key",
			Type:        appType,
			ContextPath: contextPath,
		})
		if err != nil {
			return err
		}
		return printJSON(created)
	},
}

var applicationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Applications.DeleteApplication(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf("deleted application %s", args[0])
		return nil
	},
}

func init() {
	applicationsCreateCmd.Flags().String("type", "HOSTED", "application type (HOSTED, MICROSERVICE, EXTERNAL)")
	applicationsCreateCmd.Flags().String("context-path", "", "context path for hosted applications")

	applicationsCmd.AddCommand(applicationsListCmd)
	applicationsCmd.AddCommand(applicationsGetCmd)
	applicationsCmd.AddCommand(applicationsFindCmd)
	applicationsCmd.AddCommand(applicationsCreateCmd)
	applicationsCmd.AddCommand(applicationsDeleteCmd)
	rootCmd.AddCommand(applicationsCmd)
}
