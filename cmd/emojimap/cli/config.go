package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	var output string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the default configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return errors.Wrap(err, "marshal config")
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return errors.Wrap(err, "write config")
			}
			cmd.Printf("config written to %s\n", output)
			return nil
		},
	}
	generate.Flags().StringVarP(&output, "output", "o", "config.yaml", "destination file, - for stdout")

	cmd.AddCommand(generate)
	return cmd
}
