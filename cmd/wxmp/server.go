package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	wxmp "github.com/goliatone/go-wxmp"
	"github.com/goliatone/go-wxmp/adapters/prom"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/webhooks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const maxWebhookBody = 1 << 20

type serverOptions struct {
	addr        string
	path        string
	metricsPath string
}

func (c *cli) serveWebhookCommand() *cobra.Command {
	opts := serverOptions{}
	cmd := &cobra.Command{
		Use:   "serve-webhook",
		Short: "Serve the webhook handshake and signed message endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := prometheus.NewRegistry()
			client, err := c.client(wxmp.WithMetricsRecorder(prom.NewRecorder(registry)))
			if err != nil {
				return err
			}
			var metrics http.Handler
			if opts.metricsPath != "" {
				metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
			}
			router := newWebhookRouter(client.Verifier(), client.Logger(), opts, metrics)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, &http.Server{
				Addr:              opts.addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}, client.Logger())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", ":8080", "listen address")
	flags.StringVar(&opts.path, "path", "/wechat", "webhook path")
	flags.StringVar(&opts.metricsPath, "metrics-path", "/metrics", "Prometheus endpoint, disabled when empty")
	return cmd
}

// newWebhookRouter mounts GET path as the handshake and POST path behind the
// signature check. POST bodies are acknowledged with "success".
func newWebhookRouter(verifier webhooks.Verifier, logger core.Logger, opts serverOptions, metrics http.Handler) *mux.Router {
	path := strings.TrimSpace(opts.path)
	if path == "" {
		path = "/wechat"
	}
	router := mux.NewRouter()
	router.Handle(path, webhooks.HandshakeHandler(verifier)).Methods(http.MethodGet)

	signed := router.Methods(http.MethodPost).Subrouter()
	signed.Use(webhooks.RequireSignature(verifier, logger))
	signed.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if len(body) > maxWebhookBody {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		logger.Info("webhook message received", "bytes", len(body), "openid", r.URL.Query().Get("openid"))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("success"))
	})

	if metrics != nil && strings.TrimSpace(opts.metricsPath) != "" {
		router.Handle(opts.metricsPath, metrics).Methods(http.MethodGet)
	}
	return router
}

func serve(ctx context.Context, server *http.Server, logger core.Logger) error {
	errs := make(chan error, 1)
	go func() {
		logger.Info("webhook server listening", "addr", server.Addr)
		errs <- server.ListenAndServe()
	}()
	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("webhook server stopping")
		return server.Shutdown(shutdownCtx)
	}
}
