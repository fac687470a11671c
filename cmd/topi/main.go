// Command topi runs the Pepetopia community bot suite. Each service is a
// subcommand: reply (draft assistant), community (moderation + mascot chat)
// and digest (investor updates).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "topi",
	Short: "Pepetopia community bot suite",
	Long: `topi runs the Pepetopia Telegram bots.

Services:
  reply      Reply-draft assistant: paste a post, get scored reply candidates
  community  Group moderation, /price and the TOPI mascot chat
  digest     Daily investor digest generated from repository commits

Configuration is environment-driven (with .env fallback); secrets are never
logged.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(communityCmd)
	rootCmd.AddCommand(digestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
