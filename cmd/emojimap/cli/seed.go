package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/auth"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/db"
)

func NewSeedCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo users, tags, markers and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := bootstrap()
			if err != nil {
				return err
			}
			defer l.Sync() //nolint:errcheck

			gdb, err := db.NewGormClient(cfg, l)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			hash, err := auth.NewHasher(cfg).Hash(password)
			if err != nil {
				return err
			}

			inserted, err := db.Seed(cmd.Context(), gdb, hash)
			if err != nil {
				return errors.Wrap(err, "seed")
			}
			if inserted {
				l.Info("Demo data inserted.")
			} else {
				l.Info("Demo data already present, nothing to do.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "haslo123", "password set for every seeded user")

	return cmd
}
