// Serve command runs the read-only wiki HTTP server.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/server"
	"github.com/inkwell-tools/satchel/internal/sqlite"
	"github.com/inkwell-tools/satchel/internal/watcher"
	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the notebook as a read-only wiki",
	Long: `Serve starts an HTTP server rendering notebook pages as HTML.
With --watch, the notebook reloads when its JSONL files change on disk,
so edits from another process appear without a restart.

Example:
  satchel serve
  satchel serve --addr localhost:9090 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload when JSONL files change")
}

func runServe(cmd *cobra.Command, args []string) error {
	backend := mustAttach("serve")
	defer backend.Detach()

	logger := log.New(os.Stderr, "satchel: ", log.LstdFlags)

	srv := server.NewServer(backend, &server.Config{
		Addr:   serveAddr,
		Logger: logger,
	})
	if err := srv.Start(); err != nil {
		fail(exitSysError, "serve", err)
	}
	defer srv.Stop()

	logger.Printf("serving on http://%s", srv.GetAddr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		w, err := watcher.New()
		if err != nil {
			fail(exitSysError, "serve", err)
		}
		if err := w.Start(backend.DataDir()); err != nil {
			fail(exitSysError, "serve", err)
		}
		defer w.Stop()

		cfg := types.Config{
			Backend: types.BackendSQLite,
			DataDir: backend.DataDir(),
		}

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-w.Changes():
					if !ok {
						return
					}
					logger.Println("notebook changed on disk, reloading")
					if err := reloadBackend(backend, cfg); err != nil {
						logger.Printf("reload failed: %s", err)
					}
				case err, ok := <-w.Errors():
					if !ok {
						return
					}
					logger.Printf("watch error: %s", err)
				}
			}
		}()
	}

	<-ctx.Done()
	fmt.Println("\nShutting down")
	return nil
}

// reloadBackend re-attaches the backend so the JSONL files are re-read.
// Requests arriving mid-reload see a detached notebook and get a 500; the
// window is a single load cycle.
func reloadBackend(backend *sqlite.Backend, cfg types.Config) error {
	if err := backend.Detach(); err != nil {
		return fmt.Errorf("detach: %w", err)
	}
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	return nil
}
