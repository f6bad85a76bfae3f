// -- cmd/chat.go --
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/assistant"
	"github.com/shadowglass/inquest/internal/observability"
)

// newChatCmd creates and configures the `chat` command.
func newChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Asks the assistant a free-form question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			language, _ := cmd.Flags().GetString("language")
			if language == "" {
				language = appCfg.Chat.DefaultLanguage
			}
			style := schemas.StyleTechnical
			if creative, _ := cmd.Flags().GetBool("creative"); creative {
				style = schemas.StyleCreative
			}

			components, err := initializeComponents(appCfg, logger)
			if err != nil {
				return err
			}
			defer components.Shutdown()

			reply, err := components.Assistant.GenerateChatReply(ctx, strings.Join(args, " "), language, style)
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}

	chatCmd.Flags().StringP("language", "l", "",
		fmt.Sprintf("Reply language (%s). Defaults to the configured language.",
			strings.Join(assistant.SupportedLanguages(), ", ")))
	chatCmd.Flags().Bool("creative", false, "Use the creative persona instead of the technical one.")

	return chatCmd
}
