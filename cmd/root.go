package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deepchat-dev/deepchat/internal/chat"
	"github.com/deepchat-dev/deepchat/internal/config"
	"github.com/deepchat-dev/deepchat/internal/llm"
	"github.com/deepchat-dev/deepchat/internal/scripts"
	"github.com/deepchat-dev/deepchat/internal/tui"
)

var (
	modelFlag    string
	streamFlag   bool
	noStreamFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "deepchat",
	Short: "Chat with OpenAI-compatible models from the terminal",
	Long: `DeepChat is a terminal chat client for any OpenAI-compatible
chat-completion API. It keeps a running conversation, streams responses
as they are generated, and can attach files or run saved prompt scripts.

Models are configured in ~/.config/deepchat/config.json; each entry has
its own endpoint, API key and generation parameters.`,
	Run: runChat,
}

// newProvider builds an API client for a resolved model entry
func newProvider(r *config.Resolved) *llm.Client {
	return llm.NewClient(llm.Options{
		APIKey:      r.Model.APIKey,
		Model:       r.Model.Name,
		Endpoint:    r.Model.URL,
		MaxTokens:   r.Model.MaxTokens,
		Temperature: r.Model.Temperature,
		Extra:       r.Model.Extra,
	})
}

// resolveModel applies the command line flags on top of the settings file
func resolveModel() (*config.Resolved, error) {
	resolved, err := config.Resolve(modelFlag)
	if err != nil {
		return nil, err
	}
	if streamFlag {
		resolved.Model.Stream = true
	}
	if noStreamFlag {
		resolved.Model.Stream = false
	}
	return resolved, nil
}

// newChatModel wires the session, script registry and UI for an
// interactive run. Launch does not persist the model choice; only an
// explicit /model switch does.
func newChatModel() (tea.Model, error) {
	resolved, err := resolveModel()
	if err != nil {
		return nil, err
	}

	session := chat.Start(newProvider(resolved), resolved.Alias, resolved.SystemMessage)

	registry := scripts.NewRegistry()
	if err := registry.Refresh(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load scripts: %v\n", err)
	}

	return tui.New(session, resolved, registry), nil
}

func runChat(cmd *cobra.Command, args []string) {
	model, err := newChatModel()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Run 'deepchat config' to inspect your settings.")
		os.Exit(1)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutBracketedPaste(), // Disable bracketed paste to avoid escape sequence issues
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (a name from the config file)")
	rootCmd.PersistentFlags().BoolVar(&streamFlag, "stream", false, "Stream the response as it is generated")
	rootCmd.PersistentFlags().BoolVar(&noStreamFlag, "no-stream", false, "Wait for the complete response")
}
