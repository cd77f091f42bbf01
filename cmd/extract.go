package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/extractify/internal/pipeline"
)

var extractNoModel bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract fields from a single conversation",
	Long:  "Reads one conversation from a file (or stdin when no file is given) and prints the extraction result as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data     []byte
			fileName = "stdin"
			err      error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "read %s", args[0])
			}
			fileName = filepath.Base(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
		}

		p := pipeline.New(newResolver(extractNoModel), cfg.Extract.Concurrency)
		res, err := p.ExtractOne(cmd.Context(), string(data), fileName)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractNoModel, "no-model", false, "skip the model call, pattern extraction only")
	rootCmd.AddCommand(extractCmd)
}
