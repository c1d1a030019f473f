package cmd

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"fagskolen/internal/agent"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the study catalog using Claude AI",
	Long: `Ask a natural language question about the Fagskolen i Viken study catalog
and get an AI-powered answer. The model can call the query commands as tools
to look up programs, courses and locations in the local database.

Requires ANTHROPIC_API_KEY environment variable to be set.

Example:
  fagskolen ask "Hvilke studier tilbys i Drammen?"
  fagskolen ask "Which programs require a police certificate?"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := args[0]

		initDB := func(dir string) (agent.DBInterface, func(), error) {
			return InitDB(dir)
		}

		askAgent, err := agent.NewAskAgent(
			rootCmd,
			agent.WithAPIKeyFromEnv(),
			agent.WithDataDir(dataDir),
			agent.WithDBInitializer(initDB),
		)
		if err != nil {
			HandleError(err, "Failed to create agent")
		}

		result, err := askAgent.Generate(context.Background(), fantasy.AgentCall{Prompt: question})
		if err != nil {
			HandleError(err, "Failed to generate response")
		}

		text := result.Response.Content.Text()
		rendered, err := glamour.Render(text, "auto")
		if err != nil {
			// Fall back to the raw markdown.
			fmt.Println(text)
			return
		}
		fmt.Print(rendered)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
