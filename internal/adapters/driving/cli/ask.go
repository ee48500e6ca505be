package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khalid0211/FileRAG/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your documents",
	Long: `Sends a question to Gemini grounded on the active store and prints the
answer with the documents it came from. Answers are added to the query history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// answerView is the JSON shape of an answer.
type answerView struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Sources   []string  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
	Warning   string    `json:"warning,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.Join(args, " ")
	answer, err := queryService.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", explain(err))
	}

	if askJSON {
		view := answerView{
			Question:  answer.Question,
			Answer:    answer.Text,
			Sources:   answer.Sources,
			Timestamp: answer.Timestamp,
		}
		if view.Sources == nil {
			view.Sources = []string{}
		}
		if answer.Warning != nil {
			view.Warning = answer.Warning.Error()
		}
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Sources) == 0 {
		cmd.Println("Sources: none")
	} else {
		cmd.Println("Sources:")
		for i, s := range answer.Sources {
			cmd.Printf("  [%d] %s\n", i+1, s)
		}
	}

	if answer.Warning != nil {
		cmd.PrintErrf("\n%v\n", answer.Warning)
	}
}
