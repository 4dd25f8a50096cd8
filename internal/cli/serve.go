package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/queuebot/internal/adapters/telegram"
	"github.com/example/queuebot/internal/db"
	"github.com/example/queuebot/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat bot and the up-next notifier",
		Long: `Connect to the Bot API, serve queue commands, and periodically tell the
participant at the front of the queue that they are up next.

Stops cleanly on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			services, err := wire.Get()
			if err != nil {
				return err
			}
			defer services.Close()

			if err := services.Config.RequireBotToken(); err != nil {
				return err
			}
			if err := db.Ping(services.DB); err != nil {
				return err
			}

			api, err := telegram.Connect(services.Config.BotToken)
			if err != nil {
				return err
			}
			services.Logger.WithField("bot", api.Self.UserName).Info("connected")

			bot := services.Bot(api)
			notifier := services.Notifier(bot)

			return runUntilDone(ctx, bot.Run, notifier.Run)
		},
	}
}

// runUntilDone runs every loop until ctx is cancelled or one of them fails,
// then waits for all of them to return.
func runUntilDone(ctx context.Context, loops ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, loop := range loops {
		loop := loop
		g.Go(func() error { return loop(ctx) })
	}
	return g.Wait()
}
