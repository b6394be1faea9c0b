package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/dodge/internal/config"
	gamecfg "github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/server"
	"github.com/tomz197/dodge/internal/loop/web"
	"github.com/tomz197/dodge/internal/store"
)

const (
	defaultHost     = "0.0.0.0"
	defaultPort     = "8080"
	defaultShutdown = 15.0 // seconds
)

//go:embed index.html
var htmlPage string

func main() {
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	shutdownTimeout := time.Duration(config.GetEnvFloat("SHUTDOWN_TIMEOUT", defaultShutdown) * float64(time.Second))

	cfg, err := gamecfg.Load(config.GetEnv(config.EnvConfig, ""))
	if err != nil {
		logger.Fatal("failed to load game config", "err", err)
	}
	records := store.NewFile(config.StorePath())
	hub := server.NewHub(logger)

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/ws", web.NewHandler(web.HandlerOptions{
		Config: cfg,
		Store:  store.WithNamespace(records, "web"),
		Hub:    hub,
		Logger: logger,
	}))

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{Addr: addr, Handler: mux}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting web server", "url", "http://"+addr, "records", records.Path())
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...", "sessions", hub.Count())
	hub.Shutdown(shutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
