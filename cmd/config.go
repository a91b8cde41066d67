package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepchat-dev/deepchat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage deepchat configuration",
	Long: `Manage deepchat configuration including models and API keys.

Examples:
  deepchat config                            # Show current config
  deepchat config set api_key <key>          # Set the default model's API key
  deepchat config set default_model gpt-4o   # Change the default model
  deepchat config delete api_key             # Remove the API key`,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  model           - Add or select a model entry
  default_model   - Model used when none is specified
  api_key         - API key for the default model
  url             - Chat-completions endpoint for the default model
  system_message  - System message opening every conversation`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		if err := config.Set(key, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Set %s successfully.\n", key)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		keys := config.ListKeys()

		if val, ok := keys[key]; ok {
			fmt.Printf("%s: %s\n", key, val)
		} else {
			fmt.Printf("%s is not set\n", key)
		}
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"remove", "unset"},
	Short:   "Delete a configuration value",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		if err := config.Delete(key); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Deleted %s.\n", key)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ConfigPath())
	},
}

var configModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured models",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		aliases := config.ModelAliases()
		if len(aliases) == 0 {
			fmt.Println("No models configured.")
			return
		}
		for _, alias := range aliases {
			marker := "  "
			if alias == cfg.DefaultModel {
				marker = "* "
			}
			entry := cfg.Models[alias]
			if entry.Description != "" {
				fmt.Printf("%s%s - %s\n", marker, alias, entry.Description)
			} else {
				fmt.Printf("%s%s\n", marker, alias)
			}
		}
	},
}

func showConfig() {
	fmt.Printf("Configuration file: %s\n\n", config.ConfigPath())

	keys := config.ListKeys()
	if len(keys) == 0 {
		fmt.Println("No configuration set.")
		fmt.Println("\nUse 'deepchat config set <key> <value>' to configure.")
		return
	}

	for k, v := range keys {
		fmt.Printf("  %s: %s\n", k, v)
	}
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configModelsCmd)
	rootCmd.AddCommand(configCmd)
}
