package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mtlprog/bison-admin/docs"
	"github.com/mtlprog/bison-admin/internal/api"
	"github.com/mtlprog/bison-admin/internal/config"
	"github.com/mtlprog/bison-admin/internal/handler"
	"github.com/mtlprog/bison-admin/internal/logger"
	"github.com/mtlprog/bison-admin/internal/middleware"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/mtlprog/bison-admin/internal/service"
	"github.com/mtlprog/bison-admin/internal/session"
	"github.com/mtlprog/bison-admin/internal/static"
	"github.com/mtlprog/bison-admin/internal/template"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

//	@title			Bison Admin API
//	@version		1.0
//	@description	Read-only JSON views of platforms and subscriptions.
//	@BasePath		/
func main() {
	app := &cli.App{
		Name:  "bison-admin",
		Usage: "Web panel for managing bison subscriptions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML settings file",
				EnvVars: []string{"BISON_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Aliases: []string{"a"},
				Value:   config.DefaultAPIURL,
				Usage:   "Base URL of the subscription backend API",
				EnvVars: []string{"BISON_API_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Fixed backend token; every visitor is logged in as admin with it",
				EnvVars: []string{"BISON_TOKEN"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Backend lookups per minute per IP address",
				EnvVars: []string{"RATE_LIMIT"},
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   config.DefaultSessionTTL,
				Usage:   "Idle time after which a session expires",
				EnvVars: []string{"SESSION_TTL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "platforms",
				Usage:  "Print the platform configuration the panel would use",
				Action: printPlatforms,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// settings are the effective options: flags and environment win over the file.
type settings struct {
	file       *config.File
	port       string
	apiURL     string
	token      string
	rateLimit  int
	sessionTTL time.Duration
}

func loadSettings(c *cli.Context) (*settings, error) {
	file, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	s := &settings{
		file:       file,
		port:       c.String("port"),
		apiURL:     c.String("api-url"),
		token:      c.String("token"),
		rateLimit:  c.Int("rate-limit"),
		sessionTTL: c.Duration("session-ttl"),
	}
	if !c.IsSet("port") && file.Port != "" {
		s.port = file.Port
	}
	if !c.IsSet("api-url") && file.APIURL != "" {
		s.apiURL = file.APIURL
	}
	if !c.IsSet("token") && file.Token != "" {
		s.token = file.Token
	}
	if !c.IsSet("rate-limit") && file.RateLimit > 0 {
		s.rateLimit = file.RateLimit
	}
	if !c.IsSet("session-ttl") && file.SessionTTL > 0 {
		s.sessionTTL = file.SessionTTL
	}
	return s, nil
}

// loadGlobalConf fetches platforms from the backend and applies file overrides.
// When the backend is unreachable but the file defines platforms, those are used.
func loadGlobalConf(ctx context.Context, svc *service.BisonService, file *config.File) (*model.GlobalConf, error) {
	platforms, err := svc.GlobalConf(ctx)
	if err != nil {
		if len(file.Platforms) == 0 {
			return nil, fmt.Errorf("load global configuration: %w", err)
		}
		slog.Warn("backend global configuration unavailable, using config file platforms only", "error", err)
	}
	conf := model.NewGlobalConf(file.ApplyPlatforms(platforms))
	slog.Info("global configuration loaded", "platforms", conf.Len())
	return conf, nil
}

func printPlatforms(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	svc, err := service.NewBisonService(s.apiURL, config.DefaultAPITimeout)
	if err != nil {
		return err
	}
	conf, err := loadGlobalConf(c.Context, svc, s.file)
	if err != nil {
		return err
	}

	for _, key := range conf.PlatformKeys() {
		p, _ := conf.Platform(key)
		fmt.Fprintf(c.App.Writer, "%-12s %-16s target=%-5t tags=%-5t categories=%d\n",
			key, p.Name, p.HasTarget, p.EnabledTag, len(p.Categories))
	}
	return nil
}

func run(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	svc, err := service.NewBisonService(s.apiURL, config.DefaultAPITimeout)
	if err != nil {
		return err
	}
	conf, err := loadGlobalConf(c.Context, svc, s.file)
	if err != nil {
		return err
	}

	tmpl, err := template.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	sessions, err := session.NewStore(s.sessionTTL)
	if err != nil {
		return err
	}
	defer sessions.Close()

	limiter, err := middleware.NewLookupLimiter(s.rateLimit, time.Minute)
	if err != nil {
		return err
	}
	defer limiter.Close()

	opts := []handler.Option{
		handler.WithNotice(s.file.Notice),
		handler.WithLookupLimiter(limiter.Middleware),
	}
	if s.token != "" {
		slog.Warn("static token configured, every visitor is logged in as admin")
		opts = append(opts, handler.WithStaticLogin(model.LoginInfo{
			Type:  model.LoginAdmin,
			Name:  "admin",
			Token: s.token,
		}))
	}

	h, err := handler.New(svc, tmpl, conf, sessions, opts...)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}
	apiHandler, err := api.New(svc, sessions, conf)
	if err != nil {
		return fmt.Errorf("create api handler: %w", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	apiHandler.RegisterRoutes(mux)
	mux.Handle("GET /static/", static.Handler("/static/"))
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	server := &http.Server{
		Addr:         ":" + s.port,
		Handler:      middleware.Logging(middleware.CacheControl(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "server_addr", "http://localhost:"+s.port, "api_url", s.apiURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
