package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lecture-quiz/internal/logger"
	"lecture-quiz/internal/session"
	"lecture-quiz/internal/terminal"
	transport "lecture-quiz/internal/transport/http"
)

// NewTakeCmd runs a quiz in the terminal against a quiz server.
func NewTakeCmd() *cobra.Command {
	serverURL := os.Getenv("QUIZ_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "take <quiz-id>",
		Short: "Take a quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.Nop()
			if verbose {
				log = logger.Setup("debug", "pretty")
			}

			client := transport.NewClient(serverURL, nil)
			quiz, err := client.FetchQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := terminal.NewRenderer(cmd.OutOrStdout())
			sess, err := session.New(quiz, r, client, session.WithLogger(log))
			if err != nil {
				return err
			}
			return terminal.Run(cmd.Context(), sess, r, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", serverURL, "quiz server base URL")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log session events to stderr")
	return cmd
}
