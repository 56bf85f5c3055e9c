package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/etna-dt/twinhub/config"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Device registry related commands",
}

var devicesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured devices",
	RunE:  runDevicesLs,
}

func init() {
	devicesCmd.AddCommand(devicesLsCmd)
	rootCmd.AddCommand(devicesCmd)
}

func runDevicesLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("device registry: %w", err)
	}
	for _, d := range reg.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.ID, d.URL)
	}
	return nil
}
