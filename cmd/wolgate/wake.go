package main

import (
	"context"
	"fmt"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/fgeck/wolgate/internal/services/waker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	wakeBroadcast string
	wakePort      int
	wakeInterface string
	wakeAll       bool
)

var wakeCmd = &cobra.Command{
	Use:   "wake [mac-address]",
	Short: "Send a single magic packet",
	Long: `Send a magic packet to the given MAC address, or to the configured
default when none is given. The address may use ':' or '-' separators
or none at all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWake,
}

func init() {
	wakeCmd.Flags().StringVarP(&wakeBroadcast, "broadcast", "b", "", "broadcast address (default from config)")
	wakeCmd.Flags().IntVarP(&wakePort, "port", "p", 0, "UDP port, usually 9 or 7 (default from config)")
	wakeCmd.Flags().StringVarP(&wakeInterface, "interface", "i", "", "local IPv4 address to send from")
	wakeCmd.Flags().BoolVarP(&wakeAll, "all-interfaces", "a", false, "send from every non-loopback IPv4 interface")
}

func runWake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := models.WakeRequest{
		Address:       wakeBroadcast,
		Port:          wakePort,
		Interface:     wakeInterface,
		AllInterfaces: wakeAll,
	}
	if len(args) > 0 {
		req.MACAddress = args[0]
	}

	result, err := waker.New(log.Logger, *cfg).Wake(context.Background(), req)
	if err != nil {
		log.Error().Err(err).Msg("wake failed")
		return err
	}

	for _, res := range result.Report.Results {
		ev := log.Info()
		if !res.Success {
			ev = log.Warn().Err(res.Error)
		}
		ev.Bool("success", res.Success).
			Str("interface", res.InterfaceName).
			Str("address", res.InterfaceAddress).
			Msg("attempt")
	}

	if !result.Success() {
		return fmt.Errorf("magic packet for %s could not be sent", result.MACAddress)
	}
	return nil
}
