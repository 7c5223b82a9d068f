package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/store"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage datasets uploaded to the dashboard",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded datasets, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		list, err := st.List()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(w, "(no datasets)")
			return nil
		}
		for _, e := range list {
			fmt.Fprintf(w, "- %s: %s (%d bytes, %s)\n", e.ID, e.Name, e.Size, e.UploadedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var datasetsAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Copy a dataset file into the upload store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := dataset.Load(path, dataset.DefaultLoadOptions())
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		e, err := st.Save(filepath.Base(path), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (%d posts) as %s\n", e.Name, ds.Len(), e.ID)
		return nil
	},
}

var datasetsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an uploaded dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

func openStore() (*store.Store, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return store.New(c.UploadsDir, int64(c.MaxUploadMB)<<20)
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsAddCmd)
	datasetsCmd.AddCommand(datasetsRmCmd)
}
