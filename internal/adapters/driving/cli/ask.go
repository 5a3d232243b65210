package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the indexed documents",
	Long: `Restores the persisted index and answers a single question from it.

Run "docqa index" first, or upload a document through the HTTP API.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfgFile)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	if err := app.uploads.Restore(ctx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New(`no index found, run "docqa index" first`)
		}
		return fmt.Errorf("restore index: %w", err)
	}

	answer, err := app.qa.Answer(ctx, domain.Question{Question: args[0]})
	if err != nil {
		return err
	}

	cmd.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range answer.Sources {
			cmd.Printf("  - %s\n", source)
		}
	}
	return nil
}
