package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/logger"
	"github.com/KaramelBytes/socialpulse/internal/utils"
)

var (
	anaFormat      string
	anaOutputPath  string
	anaSection     string
	anaTopHashtags int
	anaDoctorLimit int
	anaDelimiter   string
	anaMaxRows     int
	anaSheetName   string
	anaSheetIndex  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a post export and print the engagement report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		path := args[0]

		lopt := dataset.DefaultLoadOptions()
		lopt.MaxRows = c.MaxRows
		if cmd.Flags().Changed("max-rows") {
			lopt.MaxRows = anaMaxRows
		}
		if lopt.Delimiter, err = parseDelimiter(anaDelimiter); err != nil {
			return err
		}
		lopt.SheetName = anaSheetName
		lopt.SheetIndex = anaSheetIndex

		opt := analytics.Options{TopHashtags: c.TopHashtags, DoctorLimit: c.DoctorLimit}
		if cmd.Flags().Changed("top-hashtags") {
			opt.TopHashtags = anaTopHashtags
		}
		if cmd.Flags().Changed("doctor-limit") {
			opt.DoctorLimit = anaDoctorLimit
		}

		section := strings.ToLower(strings.TrimSpace(anaSection))
		if section != "" {
			if _, ok := (&analytics.Report{}).Section(section); !ok {
				return fmt.Errorf("unknown --section: %s (use %s)", anaSection, strings.Join(analytics.Sections, "|"))
			}
		}

		ds, err := dataset.Load(path, lopt)
		if err != nil {
			return err
		}
		for _, w := range ds.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		rep := analytics.Run(ds, opt)
		logger.Log.Debugf("analyzed dataset=%s posts=%d", ds.Name, ds.Len())

		out, err := renderReport(rep, anaFormat, section)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

func renderReport(rep *analytics.Report, format, section string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		if section == "" {
			return []byte(rep.Markdown()), nil
		}
		md, _ := rep.SectionMarkdown(section)
		return []byte(md), nil
	case "json":
		if section == "" {
			return utils.PrettyJSON(rep)
		}
		v, _ := rep.Section(section)
		return utils.PrettyJSON(v)
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use markdown|json)", format)
	}
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaSection, "section", "", "only one section: "+strings.Join(analytics.Sections, "|"))
	analyzeCmd.Flags().IntVar(&anaTopHashtags, "top-hashtags", 10, "hashtags per ranking (<0 = all, overrides config)")
	analyzeCmd.Flags().IntVar(&anaDoctorLimit, "doctor-limit", 20, "post doctor rows in Markdown (0 = all, overrides config)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited, overrides config)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
