/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurago/asagraph/pkg/api"
	"github.com/neurago/asagraph/pkg/config"
	"github.com/neurago/asagraph/pkg/di"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the ASA-graph REST API server with authentication.

Example:
  asagraph serve --api-key=mysecretkey --port=8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.DefaultConfigPath()
		}

		var cfg *config.Config
		var err error
		if config.Exists(configPath) {
			cfg, err = config.LoadConfig(configPath)
		} else {
			cfg, err = config.BootstrapConfig(configPath)
			if err == nil {
				fmt.Printf("Bootstrapped configuration at %s\n", configPath)
			}
		}
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
			cfg.APIKey = apiKey
		}
		if cfg.APIKey == "" || cfg.APIKey == "auto" {
			return fmt.Errorf("an API key is required: set api_key in %s or pass --api-key", configPath)
		}

		log := newLogger(cmd)
		reg, err := di.NewContainer().GetRegistryFactory()(cfg, log)
		if err != nil {
			return err
		}

		return api.StartServer(reg, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.APIKey,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for client authentication (overrides config)")
}
