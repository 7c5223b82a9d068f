package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/utils"
)

var (
	abOutDir    string
	abFormat    string
	abDelimiter string
	abMaxRows   int
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several post exports, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		lopt := dataset.DefaultLoadOptions()
		lopt.MaxRows = c.MaxRows
		if cmd.Flags().Changed("max-rows") {
			lopt.MaxRows = abMaxRows
		}
		if lopt.Delimiter, err = parseDelimiter(abDelimiter); err != nil {
			return err
		}
		opt := analytics.Options{TopHashtags: c.TopHashtags, DoctorLimit: c.DoctorLimit}
		ext := ".report.md"
		if strings.EqualFold(abFormat, "json") {
			ext = ".report.json"
		}

		w := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := dataset.Load(path, lopt)
			if err != nil {
				return err
			}
			out, err := renderReport(analytics.Run(ds, opt), abFormat, "")
			if err != nil {
				return err
			}
			if abOutDir == "" {
				if !abQuiet {
					fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
				}
				continue
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outFile := uniquePath(abOutDir, base, ext)
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(w, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns
// the de-duplicated list sorted by path.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// uniquePath returns dir/base+ext, or dir/base__N+ext when that already exists.
func uniquePath(dir, base, ext string) string {
	p := filepath.Join(dir, base+ext)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for <name>.report.md files (default: print to stdout)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "output format: markdown|json")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	analyzeBatchCmd.Flags().IntVar(&abMaxRows, "max-rows", 100000, "maximum rows to process per file (0 = unlimited)")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress progress output")
}
