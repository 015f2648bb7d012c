package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api"
	v1 "github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/config"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/db"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/draw"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/feed"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/logger"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/scheduler"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 15 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dsn != "" {
		postgresDB, err = db.OpenPostgresWithURL(dsn)
	} else {
		dsn = conf.Postgres.DSN()
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(postgresDB))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(postgresDB))

	raffleSvc := service.NewRaffleService(raffleRepo)
	live := v1.NewLiveHandler(raffleSvc, conf.API.AllowedCORSDomains)
	drawSvc := service.NewDrawService(
		raffleRepo,
		service.NewEnricher(userRepo, conf.Draw.LookupConcurrency, conf.Draw.LookupTimeout),
		draw.NewLockedRand(conf.Draw.Seed),
		service.WithPublisher(live),
		service.WithMaxConcurrentRaffles(conf.Draw.MaxConcurrentRaffles),
	)
	sched := scheduler.New(drawSvc, conf.Draw.Interval)

	err = config.Watch(configPath,
		func(c *config.AppConfig) { sched.SetInterval(c.Draw.Interval) },
		func(err error) { zap.L().Error("config reload rejected", zap.Error(err)) },
	)
	if err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}

	var workers conc.WaitGroup
	workers.Go(func() { live.Run(ctx) })
	workers.Go(func() { sched.Run(ctx) })
	if conf.Feed.Enabled {
		listener := feed.NewListener(feed.PgxDialer(dsn), service.NewTicketCounterService(raffleRepo), conf.Feed.ReconnectDelay)
		workers.Go(func() { listener.Run(ctx) })
	}

	s := api.NewServer(conf, raffleSvc, drawSvc, live)
	err = serve(ctx, s)

	// A draw in flight still has to record its outcome before the process exits.
	stop()
	if !waitTimeout(func() { recoverWorkers(&workers) }, shutdownTimeout) {
		zap.L().Warn("background workers did not stop in time", zap.Duration("timeout", shutdownTimeout))
	}

	return err
}

func recoverWorkers(workers *conc.WaitGroup) {
	if r := workers.WaitAndRecover(); r != nil {
		zap.L().Error("background worker panicked", zap.Error(r.AsError()))
	}
}

// waitTimeout reports whether wait returned within timeout.
func waitTimeout(wait func(), timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func serve(ctx context.Context, s *api.Server) error {
	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
