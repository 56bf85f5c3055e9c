package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/etna-dt/twinhub/config"
	"github.com/etna-dt/twinhub/core/dispatch"
	"github.com/etna-dt/twinhub/core/model"
	"github.com/etna-dt/twinhub/infra/gateway"
	"github.com/etna-dt/twinhub/infra/logger"
)

var (
	dispatchSensors []string
	dispatchDevices []string
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <command>",
	Short: "Send a command to the configured devices",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatchCommand,
}

func init() {
	dispatchCmd.Flags().StringSliceVarP(&dispatchSensors, "sensor", "s", nil, "sensor ids the command applies to (default: all)")
	dispatchCmd.Flags().StringSliceVarP(&dispatchDevices, "device", "d", nil, "device ids to target (default: all)")
	rootCmd.AddCommand(dispatchCmd)
}

func dispatchCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("device registry: %w", err)
	}

	logg := logger.New("dispatch-command")
	client := gateway.NewHTTPClient(cfg.Dispatch.Timeout(), logg)
	manager, err := dispatch.NewManager(reg, client, cfg.Dispatch.Timeout(), nil, nil, logg)
	if err != nil {
		return fmt.Errorf("dispatch manager: %w", err)
	}

	res, err := manager.Dispatch(ctx, model.DispatchRequest{
		Command:   args[0],
		Sensors:   dispatchSensors,
		DeviceIDs: dispatchDevices,
	})
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.Succeeded() {
		return fmt.Errorf("no device responded")
	}
	return nil
}
