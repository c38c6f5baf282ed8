package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/logger"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "emojimap",
		Short:         "EmojiMap backend",
		Long:          "Backend for EmojiMap: emoji markers on a shared map, with tags, comments and per-user visibility.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(path)
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}

// bootstrap loads the configuration and a logger for one-shot commands.
func bootstrap() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}
