package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"oceangpt-api/internal/backend"
	"oceangpt-api/internal/handlers/gateway"
	"oceangpt-api/internal/middleware"
	"oceangpt-api/internal/routers"
	"oceangpt-api/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	backendURL := flag.String("backend-url", "", "Inference backend endpoint URL")
	timeoutSeconds := flag.Int("timeout", 120, "Backend request timeout in seconds")
	listen := flag.String("listen", ":8001", "Gateway listen address")
	corsOrigins := flag.String("cors-origins", "*", "Comma separated CORS allow-list; narrow this in production")
	chatTemplate := flag.String("chat-template", shared.DefaultChatTemplate, "Conversational prompt template with one %s slot")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	if *backendURL == "" {
		panic("backend-url is required")
	}

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	client := backend.NewClient(backend.Config{
		URL:     *backendURL,
		Timeout: time.Duration(*timeoutSeconds) * time.Second,
	}, log)
	handler := gateway.NewHandler(client, *chatTemplate, log)

	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(401, "Missing or invalid API key")
			}

			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})

	base := e.Group("")
	base.Use(emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins: strings.Split(*corsOrigins, ","),
	}))
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	routers.RegisterGatewayRoutes(base, handler, log)
	log.Infow("Gateway configured", "backend_url", *backendURL, "timeout_seconds", *timeoutSeconds)

	go func() {
		if err := e.Start(*listen); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server.
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
