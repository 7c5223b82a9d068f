package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/socialpulse/internal/hashtagfix"
)

var (
	fixOutput string
	fixSeed   int64
)

var fixDataCmd = &cobra.Command{
	Use:   "fix-data <file.csv>",
	Short: "Add a hashtag_list column sampled from each row's content_category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := c.FixDataOutput
		if fixOutput != "" {
			out = fixOutput
		}
		res, err := hashtagfix.FixFile(args[0], hashtagfix.Options{Output: out, Seed: fixSeed})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if res.MissingCategory {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no content_category column; every row used %s\n", hashtagfix.DefaultCategory)
		}
		fmt.Fprintf(w, "✓ Added hashtags to %d rows\n", res.Rows)
		cats := make([]string, 0, len(res.Categories))
		for k := range res.Categories {
			cats = append(cats, k)
		}
		sort.Strings(cats)
		for _, k := range cats {
			fmt.Fprintf(w, "  %s: %d\n", k, res.Categories[k])
		}
		fmt.Fprintf(w, "Saved at: %s\n", res.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fixDataCmd)
	fixDataCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "output path (default socialpulse_final_dataset.csv next to the input)")
	fixDataCmd.Flags().Int64Var(&fixSeed, "seed", 0, "random seed for reproducible sampling (0 = time-based)")
}
