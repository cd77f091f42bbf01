package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/extractify/internal/store"
)

var (
	bulkSave    bool
	bulkNoModel bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <file>",
	Short: "Extract fields from every conversation in a file",
	Long:  "Sniffs the file format (dataset, JSON array, JSONL, or plain text), extracts fields from every conversation it contains, and prints the batch result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}
		fileName := filepath.Base(args[0])

		ctx := cmd.Context()
		env, err := initEnv(ctx, bulkNoModel)
		if err != nil {
			return err
		}
		defer env.Close()

		batch, err := env.Pipeline.Bulk(ctx, data, fileName)
		if err != nil {
			return err
		}

		if bulkSave {
			for _, res := range batch.Conversations {
				_, err := env.Store.CreateConversation(ctx, store.SaveRequest{
					Title:    res.Metadata.FileName,
					Content:  "",
					FileName: fileName,
					Result:   res,
				})
				if err != nil {
					return eris.Wrap(err, "save conversation")
				}
			}
			zap.L().Info("batch saved", zap.Int("conversations", batch.Total))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	},
}

func init() {
	bulkCmd.Flags().BoolVar(&bulkSave, "save", false, "persist every extraction result")
	bulkCmd.Flags().BoolVar(&bulkNoModel, "no-model", false, "skip the model call, pattern extraction only")
	rootCmd.AddCommand(bulkCmd)
}
