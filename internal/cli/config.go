package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nerdneilsfield/go-faker-file/internal/config"
)

var configForce bool

// NewConfigCommand 创建 config 命令
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyOverrides(cmd, cfg)
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer func() { _ = enc.Close() }()
			return enc.Encode(cfg.Redacted())
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			written, err := config.InitConfig(path, configForce)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "configuration written to %s", written)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
