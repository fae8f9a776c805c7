// Command parley is a small CLI over the parley library: interactive
// chat with tool calling, one-shot prompts, and model listing.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagModel     string
	flagMaxTokens int
	flagSystem    string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Converse with a model from the terminal",
	Long: `Parley talks to a conversational-AI HTTP API: streaming chat with
automatic tool execution, one-shot prompts, and model listing.

The API key is read from ANTHROPIC_API_KEY (a .env file is honored).`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "claude-sonnet-4-5", "model identifier")
	rootCmd.PersistentFlags().IntVar(&flagMaxTokens, "max-tokens", 4096, "output token limit per turn")
	rootCmd.PersistentFlags().StringVarP(&flagSystem, "system", "s", "", "system prompt")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
