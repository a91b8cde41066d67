package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepchat-dev/deepchat/internal/chat"
)

var askFileFlag string

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send a single prompt and print the response",
	Long: `Send one prompt without opening the interactive chat.

Examples:
  deepchat ask "Explain goroutines in one paragraph"
  deepchat ask -m gpt-4o "Summarize this" --file notes.md
  deepchat ask --stream "Write a haiku about compilers"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolved, err := resolveModel()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		prompt := strings.Join(args, " ")
		session := chat.Start(newProvider(resolved), resolved.Alias, resolved.SystemMessage)

		if askFileFlag != "" {
			content, err := os.ReadFile(askFileFlag)
			if err != nil {
				fmt.Printf("Error: cannot read %s: %v\n", askFileFlag, err)
				os.Exit(1)
			}
			session.Conversation().AttachFile(filepath.Base(askFileFlag), string(content))
		}

		ctx := context.Background()

		if resolved.Model.Stream {
			chunks, err := session.ChatStream(ctx, prompt)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			for chunk := range chunks {
				if chunk.Error != nil {
					fmt.Printf("\nError: %v\n", chunk.Error)
					os.Exit(1)
				}
				fmt.Print(chunk.Text)
			}
			fmt.Println()
			return
		}

		reply, err := session.Chat(ctx, prompt)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply)
	},
}

func init() {
	askCmd.Flags().StringVar(&askFileFlag, "file", "", "Attach a file to the prompt")
	rootCmd.AddCommand(askCmd)
}
