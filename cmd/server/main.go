package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"scribble/config"
	"scribble/domain"
	"scribble/game"
	"scribble/logger"
	"scribble/migrations"
	"scribble/storage"
)

var corsHeaders = []string{
	"Content-Type",
	"Upgrade",
	"Connection",
	"Sec-WebSocket-Key",
	"Sec-WebSocket-Version",
	"Sec-WebSocket-Extensions",
	"Sec-WebSocket-Protocol",
}

// CreateServer builds the engine with health, request logging and origin
// filtering. An empty allowedOrigins accepts every origin. A nil ready check
// reports healthy unconditionally.
func CreateServer(allowedOrigins []string, ready func(context.Context) error) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.Use(gin.Recovery())
	r.Use(requestLogger("/game"))
	r.GET("/health", healthHandler(ready))

	if len(allowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "OPTIONS"},
			AllowHeaders:    corsHeaders,
		}))
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// same-origin navigations carry no Origin header
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     corsHeaders,
	}))

	return r
}

func healthHandler(ready func(context.Context) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ready != nil {
			checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(checkCtx); err != nil {
				log.Warn().Err(err).Msg("health check failed")
				ctx.String(http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		ctx.String(http.StatusOK, "healthy")
	}
}

func requestLogger(skipPrefix string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, skipPrefix) {
			return
		}
		log.Info().Str("path", path).Int("status", ctx.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	}
}

func rulesFrom(cfg config.Config) game.Rules {
	return game.Rules{
		MinPlayers:       cfg.MinPlayers,
		CountdownSeconds: cfg.CountdownSeconds,
		RoundDuration:    cfg.RoundDuration,
		SessionDuration:  cfg.SessionDuration,
		RoundGap:         cfg.RoundGap,
		ResetDelay:       cfg.ResetDelay,
		GuessPoints:      cfg.GuessPoints,
		DrawerPoints:     cfg.DrawerPoints,
	}
}

type wordSource interface {
	Words(ctx context.Context) ([]string, error)
}

// loadWords reads the word list once at boot. Without a source, or with an
// empty table, the built-in list is used.
func loadWords(ctx context.Context, src wordSource) (*game.WordList, error) {
	if src == nil {
		log.Info().Msg("POSTGRES_URL not set, using built-in word list")
		return game.NewWordList(nil), nil
	}

	words, err := src.Words(ctx)
	switch {
	case errors.Is(err, domain.ErrNoWords):
		log.Warn().Msg("words table is empty, using built-in word list")
		return game.NewWordList(nil), nil
	case err != nil:
		return nil, err
	}

	wl := game.NewWordList(words)
	log.Info().Int("words", wl.Len()).Msg("word list loaded")
	return wl, nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Debug, cfg.LogFormat)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		src   wordSource
		ready func(context.Context) error
	)
	if cfg.PostgresURL != "" {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			return err
		}
		repo, err := storage.NewPostgresRepo(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer repo.Close()
		src, ready = repo, repo.Ping
	}

	words, err := loadWords(ctx, src)
	if err != nil {
		return err
	}

	hub := game.NewHub()
	registry := game.NewRegistry(rulesFrom(cfg), hub, words)
	router := game.NewRouter(registry, hub)
	gameHandler := game.NewGameHandler(router, registry, game.ConnLimits{
		SendBuffer: cfg.SendBuffer,
		ChatRate:   rate.Limit(cfg.ChatRate),
		ChatBurst:  cfg.ChatBurst,
	})

	r := CreateServer(cfg.Origins(), ready)
	r.GET("/rooms", gameHandler.ListRoomsHandler)
	r.GET("/game", gameHandler.PlayHandler)
	if cfg.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.StaticDir))))
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		hub.PingLoop(gctx, game.NewTickerGen(), cfg.PingPeriod)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Int("connections", hub.Count()).Int("rooms", registry.Len()).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
