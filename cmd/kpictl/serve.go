package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/goliatone/go-kpitiles/components/kpi"
	"github.com/goliatone/go-kpitiles/components/kpi/gorouter"
	"github.com/goliatone/go-kpitiles/components/kpi/httpapi"
	"github.com/goliatone/go-kpitiles/pkg/activity"
	"github.com/goliatone/go-kpitiles/pkg/telemetry"
)

type serveCmd struct {
	Addr     string `help:"Override server.addr."`
	BasePath string `name:"base-path" help:"Override server.base_path."`
	Activity bool   `help:"Log activity events for every preference change."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	e, err := g.load()
	if err != nil {
		return err
	}
	defer e.close()
	if cmd.Addr != "" {
		e.cfg.Server.Addr = cmd.Addr
	}
	if cmd.BasePath != "" {
		e.cfg.Server.BasePath = cmd.BasePath
	}

	metrics, err := telemetry.NewPrometheus(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	rec := telemetry.Multi{metrics, telemetry.NewLogger(e.logger)}

	hook := kpi.NewBroadcastHook()
	opts := kpi.Options{ChangeHook: hook, Telemetry: rec}
	if cmd.Activity {
		opts.ActivityHooks = activity.Hooks{activity.HookFunc(func(_ context.Context, event activity.Event) error {
			e.logger.Info("kpi activity",
				zap.String("verb", event.Verb),
				zap.String("user", event.UserID),
				zap.String("report", event.ObjectID),
			)
			return nil
		})}
		opts.ActivityConfig = activity.Config{Enabled: true}
	}
	service := e.service(opts)

	renderer, err := kpi.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("kpictl: templates: %w", err)
	}
	controller := kpi.NewController(kpi.ControllerOptions{Service: service, Renderer: renderer})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if e.file != nil && e.cfg.Storage.Watch {
		ns := e.namespaces()
		watcher, err := e.file.Watch(ctx, e.logger, func(keys []string) {
			for _, event := range kpi.ExternalEvents(ns, keys) {
				if err := service.NotifyExternalChange(ctx, event); err != nil {
					e.logger.Warn("external change broadcast failed", zap.Error(err))
				}
			}
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, rec),
		Broadcast:  hook,
		BasePath:   e.cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("kpictl: register routes: %w", err)
	}

	e.logger.Info("kpi routes ready",
		zap.String("addr", e.cfg.Server.Addr),
		zap.String("tiles", e.cfg.Server.BasePath+"/kpi/:report"),
		zap.String("panel", e.cfg.Server.BasePath+"/kpi/:report/panel"),
		zap.String("ws", e.cfg.Server.BasePath+"/kpi/ws"),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(e.cfg.Server.Addr)
	}()
	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("kpictl: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		e.logger.Info("shutting down")
		return server.Shutdown(context.Background())
	}
}
