package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roamapp/roam/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the travel assistant",
	Long:  "Start an interactive chat session. Replies stream token by token; end with /quit or Ctrl-D.",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	sess := chat.NewSession(client)
	fmt.Println("assistant: " + chat.Greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}

		fmt.Print("assistant: ")
		for chunk := range sess.Send(cmd.Context(), line) {
			fmt.Print(chunk)
		}
		fmt.Println()
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
