package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepchat-dev/deepchat/internal/chat"
	"github.com/deepchat-dev/deepchat/internal/scripts"
)

var scriptVarFlags []string

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "List and run saved prompt scripts",
	Long: `Prompt scripts are YAML files with a sequence of prompts, user
input steps and conditional branches. They are loaded from
.deepchat/scripts/ in the working directory and from the global
config directory; project scripts shadow global ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		listScripts()
	},
}

var scriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scripts",
	Run: func(cmd *cobra.Command, args []string) {
		listScripts()
	},
}

var scriptRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a script",
	Long: `Run a script against the configured model. Input steps read a
line from stdin; variables can be preset with --var.

Examples:
  deepchat script run review
  deepchat script run translate --var lang=French`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScript(args[0])
	},
}

func listScripts() {
	registry := scripts.NewRegistry()
	if err := registry.Refresh(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	defs := registry.List()
	if len(defs) == 0 {
		fmt.Println("No scripts found.")
		fmt.Println("\nPut .yaml files in .deepchat/scripts/ to add some.")
		return
	}

	for _, def := range defs {
		scope := "global"
		if !def.IsGlobal {
			scope = "project"
		}
		if def.Description != "" {
			fmt.Printf("  %s (%s) - %s\n", def.Name, scope, def.Description)
		} else {
			fmt.Printf("  %s (%s)\n", def.Name, scope)
		}
	}
}

// parseVarFlags turns repeated --var name=value flags into a map
func parseVarFlags() (map[string]string, error) {
	vars := map[string]string{}
	for _, flag := range scriptVarFlags {
		name, value, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", flag)
		}
		vars[name] = value
	}
	return vars, nil
}

func runScript(name string) {
	registry := scripts.NewRegistry()
	if err := registry.Refresh(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	def, ok := registry.Get(name)
	if !ok {
		fmt.Printf("Unknown script: %s\n", name)
		fmt.Println("Run 'deepchat script list' to see what is available.")
		os.Exit(1)
	}

	vars, err := parseVarFlags()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	resolved, err := resolveModel()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	session := chat.Start(newProvider(resolved), resolved.Alias, resolved.SystemMessage)
	engine := scripts.NewEngine(session)
	stdin := bufio.NewScanner(os.Stdin)

	for event := range engine.Run(context.Background(), def, vars) {
		switch event.Type {
		case scripts.EventStart:
			if event.Text != "" {
				fmt.Printf("-- %s\n", event.Text)
			}

		case scripts.EventStep:
			fmt.Printf("-- step %d/%d\n", event.Step, event.Total)

		case scripts.EventSystem:
			fmt.Printf("context: %s\n", event.Text)

		case scripts.EventPrompt:
			fmt.Printf("> %s\n", event.Text)

		case scripts.EventResponse:
			fmt.Println(event.Text)
			fmt.Println()

		case scripts.EventInput:
			fmt.Printf("%s ", event.Text)
			if !stdin.Scan() {
				fmt.Println("\nInput closed, stopping.")
				os.Exit(1)
			}
			engine.Input(strings.TrimSpace(stdin.Text()))

		case scripts.EventPaused:
			fmt.Print("Press Enter to continue... ")
			stdin.Scan()
			engine.Continue()

		case scripts.EventDone:
			fmt.Println("-- done")

		case scripts.EventError:
			fmt.Printf("Error: %v\n", event.Err)
			os.Exit(1)
		}
	}
}

func init() {
	scriptRunCmd.Flags().StringArrayVar(&scriptVarFlags, "var", nil, "Preset a script variable (name=value, repeatable)")
	scriptCmd.AddCommand(scriptListCmd)
	scriptCmd.AddCommand(scriptRunCmd)
	rootCmd.AddCommand(scriptCmd)
}
