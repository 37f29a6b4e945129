package pos

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"comanda/internal/config"
	"comanda/internal/pos/api/http"
	"comanda/internal/pos/app/core"
	"comanda/pkg/logger"
)

type params struct {
	serverParams *core.ServerParams
	configPath   string
	cfg          *config.Config
}

// Execute starts the ordering service and blocks until shutdown.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("invalid command received", err)
		return err
	}
	if err := validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("invalid command received", err)
		return err
	}

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.serverParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("service_failed").Error("server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("comanda", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path to the yaml config")
	port := fs.Int("port", 0, "HTTP port (overrides config)")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	return &params{
		serverParams: &core.ServerParams{Port: *port},
		configPath:   *configPath,
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	if params.serverParams.Port == 0 {
		params.serverParams.Port = cfg.Server.Port
	}
	if params.serverParams.Port <= 0 || params.serverParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1, 65535]: %d", params.serverParams.Port)
	}
	return nil
}
