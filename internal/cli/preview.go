package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paintbox/paintbox/internal/preview"
)

// previewCommand creates the preview command that serves a project over HTTP.
func (c *CLI) previewCommand() *cobra.Command {
	var addr string
	var scale int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Serve a live PNG preview of a project over HTTP",
		Long: `Serve an auto-refreshing preview page for a .pbx project. The page
re-fetches the image every second, so saving in the editor updates the
browser. Rendered frames are cached by file modification time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("project file: %w", err)
			}

			renderCache, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer renderCache.Close()

			srv := preview.New(path, renderCache, c.Logger, preview.Options{Scale: scale})
			return c.serve(cmd.Context(), addr, path, srv.Router())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultPreviewAddr, "listen address")
	cmd.Flags().IntVar(&scale, "scale", 8, "integer pixel multiplier")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "re-render on every request")

	return cmd
}

// serve runs an HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (c *CLI) serve(ctx context.Context, addr, path string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	c.Logger.Infof("Previewing %s", path)
	url := "http://" + addr
	if addr != "" && addr[0] == ':' {
		url = "http://localhost" + addr
	}
	printInfo("Serving on %s", url)
	printDetail("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
