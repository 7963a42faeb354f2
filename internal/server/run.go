package server

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robalb/threeway/internal/channel"
	"github.com/robalb/threeway/internal/config"
	"github.com/robalb/threeway/internal/handshake"
	"github.com/robalb/threeway/internal/inspect"
	"github.com/robalb/threeway/internal/trace"
)

// Run starts the responder side of the handshake.
// It binds the port given as the only argument, waits for a single
// client, and answers its handshake. See config.Parse for the env
// variables that tune it.
func Run(
	ctx context.Context,
	stdout io.Writer,
	stderr io.Writer,
	args []string,
	getenv func(string) string,
) error {
	cfg, err := config.Parse(config.Server, args, getenv)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx,
		syscall.SIGINT,  // ctr-C from the terminal
		syscall.SIGTERM, // terminate signal from Docker / kubernetes
	)
	defer cancel()

	//+++++++++++++++++++++++
	// Initialize all modules
	//+++++++++++++++++++++++

	logger := cfg.NewLogger(stderr)
	defer logger.Sync()

	if cfg.Banner {
		trace.ServerBanner(stdout)
	}
	fmt.Fprintln(stdout, "Opening Server Socket")
	ln, err := channel.Listen(ctx, cfg.Addr())
	if err != nil {
		return err
	}
	defer ln.Close()
	fmt.Fprintf(stdout, "Listening for client at port %d\n", ln.Port())
	logger.Debug("socket bound", zap.Stringer("addr", ln.Addr()))

	rec := trace.NewRecorder(cfg.Role.String())

	var inspectLn net.Listener
	if cfg.InspectAddr != "" {
		inspectLn, err = net.Listen("tcp", cfg.InspectAddr)
		if err != nil {
			return fmt.Errorf("inspect server failed to start: %w", err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	isn := rand.New(rand.NewSource(seed)).Uint32

	//++++++++++++++++++++
	// Start all modules
	//++++++++++++++++++++

	g, ctx := errgroup.WithContext(ctx)

	// The inspection server outlives the handshake only when asked to.
	inspectCtx, stopInspect := context.WithCancel(ctx)
	defer stopInspect()

	g.Go(func() error {
		if !cfg.InspectLinger {
			defer stopInspect()
		}

		conn, err := ln.Accept(ctx)
		if err != nil {
			return err
		}
		// A blocked Recv only returns once the socket is closed.
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()

		fmt.Fprintln(stdout, "Connection Established")
		logger.Info("client connected", zap.Stringer("peer", conn.RemoteAddr()))
		fmt.Fprint(stdout, trace.Separator)
		fmt.Fprintln(stdout, "Initiating Handshake")

		m := handshake.NewResponder(ln.Port(), isn)
		tr := trace.Tee(trace.NewConsole(stdout, "CLIENT"), rec)
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
		logger.Error("server terminated with error", zap.Error(err))
	}
	return err
}
