package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dualscreen/internal/api"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// command is cancelled.
const shutdownTimeout = 5 * time.Second

// serveCommand exposes a simulated device over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		device deviceOpts
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a simulated device over HTTP",
		Long: `Serve runs an HTTP API around one simulated device. Clients drive the device
with JSON requests, read its layout, and poll the property change log.`,
		Example: `  dualscreen serve --spanned
  curl -X POST localhost:8080/device -d '{"rotation": 90}'
  curl localhost:8080/events?since=0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return c.runServe(cmd, &device, ln)
		},
	}

	device.register(cmd, c.Config.Device)
	cmd.Flags().StringVar(&addr, "addr", c.Config.Server.Addr, "listen address")
	return cmd
}

// runServe serves on ln until the command context is cancelled.
func (c *CLI) runServe(cmd *cobra.Command, device *deviceOpts, ln net.Listener) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	sim, err := device.simulator(logger)
	if err != nil {
		ln.Close()
		return err
	}
	s := api.New(sim, logger)
	defer s.Close()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	printSuccess(cmd.OutOrStdout(), "Serving %s on http://%s", sim.Profile().Name, ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return ctx.Err()
}
