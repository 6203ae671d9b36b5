// Command kafdesk manages Kafka cluster profiles and inspects topics from
// the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kafdesk/internal/app"
	"kafdesk/internal/broker"
	"kafdesk/internal/cluster"
	"kafdesk/internal/config"
	"kafdesk/internal/logging"
	"kafdesk/internal/telemetry"
)

var (
	cfgPath  string
	appCfg   config.Config
	registry *cluster.Registry
	kd       *app.App
)

var rootCmd = &cobra.Command{
	Use:   "kafdesk",
	Short: "Manage Kafka clusters: profiles, topics, publishing, and sampling",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appCfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Configure(logging.Options{Level: appCfg.Log.Level, JSON: appCfg.Log.JSON})
		if appCfg.MetricsPort > 0 {
			telemetry.Expose(appCfg.MetricsPort)
		}
		registry, err = cluster.OpenRegistry(appCfg.RegistryPath)
		if err != nil {
			return err
		}
		vault := cluster.NewKeyringVault(appCfg.KeyringService)
		kd = app.New(registry, vault, broker.NewEngine())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if registry != nil {
			_ = registry.Close()
		}
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")

	rootCmd.AddCommand(clusterCmd())
	rootCmd.AddCommand(topicCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(sampleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
