package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var sampleSizes []int

var samplesCmd = &cobra.Command{
	Use:   "samples <dataset.json>",
	Short: "Slice a dataset file into smaller sample files",
	Long:  "Takes a dataset file with a top-level train list and writes one sample file per requested size, each containing the first N conversations. Useful for exercising bulk extraction without the full dataset.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		var dataset struct {
			Train []json.RawMessage `json:"train"`
		}
		if err := json.Unmarshal(data, &dataset); err != nil {
			return eris.Wrap(err, "parse dataset")
		}
		if len(dataset.Train) == 0 {
			return eris.New("dataset has no train conversations")
		}

		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		for _, n := range sampleSizes {
			if n > len(dataset.Train) {
				n = len(dataset.Train)
			}
			out := map[string]any{
				"train": dataset.Train[:n],
				"metadata": map[string]any{
					"source":              filepath.Base(args[0]),
					"total_conversations": n,
				},
			}
			blob, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal sample")
			}

			name := fmt.Sprintf("%s_sample_%d.json", base, n)
			if err := os.WriteFile(name, blob, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d conversations)\n", name, n)
		}
		return nil
	},
}

func init() {
	samplesCmd.Flags().IntSliceVar(&sampleSizes, "sizes", []int{10, 50, 100}, "sample sizes to generate")
	rootCmd.AddCommand(samplesCmd)
}
