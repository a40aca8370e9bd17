package commands

import (
	"encoding/json"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/devicecloud-io/go-devicecloud/api/simulator"
)

var simulatorsCmd = &cobra.Command{
	Use:     "simulators",
	Aliases: []string{"sims"},
	Short:   "Manage device simulators",
}

var simulatorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List simulator definitions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		simulators, err := client.Simulators.ListSimulators(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(simulators)
	},
}

var simulatorsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one simulator definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		sim, err := client.Simulators.GetSimulator(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(sim)
	},
}

var simulatorsCreateCmd = &cobra.Command{
	Use:   "create <name> <config-json>",
	Short: "Create a simulator and wait for its derived devices",
	Long: `Create a simulator definition and resolve the device managed objects
the backend derives from it, one per instance. The simulator name gets a
random suffix so repeated invocations do not collide.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		instances, err := cmd.Flags().GetInt("instances")
		if err != nil {
			return err
		}

		var sim simulator.Simulator
		if err := json.Unmarshal([]byte(args[1]), &sim); err != nil {
			return errors.Wrap(err, "invalid simulator config JSON")
		}
		sim.Name = args[0] + "-" + uuid.NewString()[:8]
		sim.Instances = instances

		client, err := newClient()
		if err != nil {
			return err
		}

		created, devices, err := client.Simulators.CreateAndAwaitDevices(cmd.Context(), &sim)
		if err != nil {
			return err
		}

		if len(devices) < instances {
			slog.Warn("some simulator devices are not resolvable yet",
				"resolved", len(devices), "instances", instances)
		}

		return printJSON(struct {
			Simulator *simulator.Simulator `json:"simulator"`
			Devices   any                  `json:"devices"`
		}{Simulator: created, Devices: devices})
	},
}

var simulatorsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a simulator and its devices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Simulators.DeleteSimulator(cmd.Context(), args[0]); err != nil {
			return err
		}
		printf("deleted simulator %s", args[0])
		return nil
	},
}

func init() {
	simulatorsCreateCmd.Flags().Int("instances", 1, "number of simulated devices")

	simulatorsCmd.AddCommand(simulatorsListCmd)
	simulatorsCmd.AddCommand(simulatorsGetCmd)
	simulatorsCmd.AddCommand(simulatorsCreateCmd)
	simulatorsCmd.AddCommand(simulatorsDeleteCmd)
	rootCmd.AddCommand(simulatorsCmd)
}
