package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/extractify/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "extractify",
	Short: "Extract structured fields from customer service conversations",
	Long:  "Pulls email, phone, zip code, order id, and customer name out of conversation text using pattern extraction with an optional Claude fallback. Ingests JSON, JSONL, nested datasets, and plain text.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
