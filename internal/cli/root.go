package cli

import (
	"os"

	"github.com/spf13/cobra"

	"lecture-quiz/internal/config"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	config.LoadDotEnv()

	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "lecture-quiz",
		Short:        "Lecture quiz server and terminal quiz runner",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, envPort))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewTakeCmd())
	cmd.AddCommand(NewValidateCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	return cmd
}
