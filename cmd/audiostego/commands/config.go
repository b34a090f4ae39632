package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gostego/audiostego/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted method parameter defaults",
	Long: `Manage the per-method parameter defaults stored in
~/.audiostego/config.yaml. A default set here is used whenever a command
omits the corresponding -k entry; an explicit -k on the command line always
wins over a stored default.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <method> <key>",
	Short: "Print a stored default parameter value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		v, ok := cfg.Get(args[0], args[1])
		if !ok {
			return fmt.Errorf("no default set for %s.%s", args[0], args[1])
		}
		fmt.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <method> <key> <value>",
	Short: "Store a default parameter value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.Set(args[0], args[1], args[2]); err != nil {
			return err
		}
		cli.PrintSuccess("%s.%s = %s", args[0], args[1], args[2])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(getConfig().Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
