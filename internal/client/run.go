package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robalb/threeway/internal/channel"
	"github.com/robalb/threeway/internal/config"
	"github.com/robalb/threeway/internal/handshake"
	"github.com/robalb/threeway/internal/inspect"
	"github.com/robalb/threeway/internal/trace"
)

// Run starts the initiator side of the handshake against the server
// listening on the port given as the only argument.
func Run(
	ctx context.Context,
	stdout io.Writer,
	stderr io.Writer,
	args []string,
	getenv func(string) string,
) error {
	cfg, err := config.Parse(config.Client, args, getenv)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx,
		syscall.SIGINT,  // ctr-C from the terminal
		syscall.SIGTERM, // terminate signal from Docker / kubernetes
	)
	defer cancel()

	logger := cfg.NewLogger(stderr)
	defer logger.Sync()

	if cfg.Banner {
		trace.ClientBanner(stdout)
	}

	rec := trace.NewRecorder(cfg.Role.String())

	var inspectLn net.Listener
	if cfg.InspectAddr != "" {
		inspectLn, err = net.Listen("tcp", cfg.InspectAddr)
		if err != nil {
			return fmt.Errorf("inspect server failed to start: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	inspectCtx, stopInspect := context.WithCancel(ctx)
	defer stopInspect()

	g.Go(func() error {
		if !cfg.InspectLinger {
			defer stopInspect()
		}

		fmt.Fprintln(stdout, "Opening Client socket")
		fmt.Fprintln(stdout, "Connecting to Server")
		conn, err := channel.Dial(ctx, cfg.Addr())
		if err != nil {
			return err
		}
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		fmt.Fprintln(stdout, "Connection Established")
		logger.Info("connected",
			zap.Stringer("server", conn.RemoteAddr()),
			zap.Uint16("local_port", conn.LocalPort()))
		fmt.Fprint(stdout, trace.Separator)
		fmt.Fprintln(stdout, "Initiating Handshake")

		m := handshake.NewInitiator(cfg.ISN, conn.LocalPort(), cfg.Port)
		tr := trace.Tee(trace.NewConsole(stdout, "SERVER"), rec)
		err = handshake.Run(ctx, logger, m, conn, tr)
		if err == nil {
			rec.MarkDone()
			logger.Info("handshake complete", zap.Stringer("header", m.Header()))
		}
		return multierr.Append(err, conn.Close())
	})

	if inspectLn != nil {
		g.Go(func() error {
			return inspect.Serve(inspectCtx, logger, inspectLn, inspect.NewRouter(logger, rec))
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("client terminated with error", zap.Error(err))
	}
	return err
}
