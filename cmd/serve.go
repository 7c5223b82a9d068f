package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/socialpulse/internal/analytics"
	"github.com/KaramelBytes/socialpulse/internal/dataset"
	"github.com/KaramelBytes/socialpulse/internal/server"
	"github.com/KaramelBytes/socialpulse/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		srv, err := newServer(c.GinMode)
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard on %s (Ctrl+C to stop)\n", addr)
		return srv.Run(ctx, addr)
	},
}

// newServer builds the dashboard from the loaded configuration.
func newServer(mode string) (*server.Server, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	if mode != "" {
		gin.SetMode(mode)
	}
	st, err := store.New(c.UploadsDir, int64(c.MaxUploadMB)<<20)
	if err != nil {
		return nil, err
	}
	lopt := dataset.DefaultLoadOptions()
	lopt.MaxRows = c.MaxRows
	return server.New(server.Config{
		DefaultDataset: c.DefaultDataset,
		CORSOrigins:    c.CORSOrigins,
		Load:           lopt,
		Analytics:      analytics.Options{TopHashtags: c.TopHashtags, DoctorLimit: c.DoctorLimit},
	}, st)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
