package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/proto"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/store"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/transport"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the gRPC map service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.Provide(
					config.NewConfig,
					logger.NewLogger,
				),
				fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l.Desugar().Named("fx")}
				}),
				db.Module,
				store.Module,
				auth.Module,
				service.Module,
				transport.Module,
				proto.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}
}
