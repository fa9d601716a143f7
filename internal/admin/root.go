// Package admin implements the forum's operator command line: schema
// migrations, account and role management and read-only browsing, all run
// directly against the store.
package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophforum/internal/logging"
	"github.com/dmitrijs2005/gophforum/internal/server/config"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophforum/internal/server/services"
	"github.com/dmitrijs2005/gophforum/internal/server/storage"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

type options struct {
	driver string
	dsn    string
}

// env is what a command needs to do its work. It is built per command
// invocation and closed when the command returns.
type env struct {
	store *storage.Storage
	users *services.UserService
	forum *services.ForumService
}

func (o *options) open(ctx context.Context, logOut io.Writer) (*env, error) {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = o.driver
	c.DatabaseDSN = o.dsn

	logger := logging.New("warn", "text", logOut)

	store, err := storage.Open(ctx, c.DatabaseDriver, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewRepositoryManager()
	return &env{
		store: store,
		users: services.NewUserService(store, m, c, logger),
		forum: services.NewForumService(store, m, c, logger),
	}, nil
}

// withEnv opens the store for the duration of fn.
func (o *options) withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := o.open(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.store.Close()
	return fn(ctx, e)
}

// NewRootCommand builds the gophforum-admin command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "gophforum-admin",
		Short: "Administer a gophforum store",
		Long: `gophforum-admin works directly on the forum database. It applies
migrations, creates accounts, assigns roles and lists content without going
through the server.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&o.driver, "driver", "sqlite", "database driver: sqlite or pgx")
	root.PersistentFlags().StringVar(&o.dsn, "dsn", "data/forum.db", "database DSN or sqlite file path")

	root.AddCommand(
		newMigrateCommand(o),
		newUserCommand(o),
		newThreadsCommand(o),
		newSearchCommand(o),
	)
	return root
}
