// Package commands implements the devicecloudctl command tree.
package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	devicecloud "github.com/devicecloud-io/go-devicecloud"
	"github.com/devicecloud-io/go-devicecloud/observability"
)

const envPrefix = "DEVICECLOUD"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "devicecloudctl",
	Short: "Command line client for the device cloud platform",
	Long: `devicecloudctl talks to a device cloud tenant: applications, inventory
and binaries, device simulators, smart rules and identity lookups.

Connection settings come from flags, environment variables with the
DEVICECLOUD_ prefix (e.g. DEVICECLOUD_BASE_URL), or a config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. Errors are logged here so main stays bare.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	return err
}

func init() {
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return initConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "use a specific configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().String("base-url", "", "platform base URL")
	rootCmd.PersistentFlags().String("tenant", "", "tenant id for basic authentication")
	rootCmd.PersistentFlags().String("username", "", "username for basic authentication")
	rootCmd.PersistentFlags().String("password", "", "password for basic authentication")
	rootCmd.PersistentFlags().String("token", "", "bearer token (takes precedence over basic credentials)")
	rootCmd.PersistentFlags().Bool("insecure", false, "skip TLS certificate verification (dev tenants only)")
}

func initConfig() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("devicecloudctl")
		viper.AddConfigPath(".")
		home, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(home + string(os.PathSeparator) + "devicecloudctl")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "invalid configuration file")
		}
	} else {
		slog.Debug("using configuration file", "file", viper.ConfigFileUsed())
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Connection flags live on the root command, so binding its persistent
	// set covers every subcommand.
	return viper.BindPFlags(rootCmd.PersistentFlags())
}

// newClient builds the aggregate client from the resolved configuration.
func newClient() (*devicecloud.Client, error) {
	client, err := devicecloud.NewWithConfig(devicecloud.ClientConfig{
		BaseURL:            viper.GetString("base-url"),
		Tenant:             viper.GetString("tenant"),
		Username:           viper.GetString("username"),
		Password:           viper.GetString("password"),
		Token:              viper.GetString("token"),
		InsecureSkipVerify: viper.GetBool("insecure"),
		Logger:             observability.NewSlogLogger(slog.Default()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create platform client")
	}
	return client, nil
}

// printJSON writes v to stdout, indented, for piping into jq and friends.
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	return nil
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
