// Package server initializes and runs the forum server.
// It opens the store, applies migrations, wires the services and serves
// gRPC until it receives a termination signal.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"

	gs "github.com/dmitrijs2005/gophforum/internal/server/grpc"
)

// purgeInterval is how often expired refresh tokens are removed.
var purgeInterval = time.Hour

type App struct {
	config        *config.Config
	logger        logging.Logger
	store         *storage.Storage
	userService   *services.UserService
	forumService  *services.ForumService
	avatarService *services.AvatarService
}

func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if w == nil {
		w = os.Stdout
	}
	logger := logging.New(c.LogLevel, c.LogFormat, w)

	store, err := storage.Open(ctx, c.DatabaseDriver, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewRepositoryManager()
	us := services.NewUserService(store, m, c, logger)
	fs := services.NewForumService(store, m, c, logger)
	as := services.NewAvatarService(c)

	if !as.Enabled() {
		logger.Info(ctx, "avatar storage not configured, uploads disabled")
	}

	return &App{config: c, logger: logger, store: store, userService: us, forumService: fs, avatarService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.forumService, app.avatarService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

// purgeTokens drops expired refresh tokens on every tick until ctx is done.
func (app *App) purgeTokens(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.userService.PurgeExpiredTokens(ctx); err != nil {
				app.logger.Warn(ctx, "purging expired tokens failed", "error", err)
			}
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeTokens(ctx)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
