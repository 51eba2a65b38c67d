package main

import (
	"fmt"

	"github.com/fgeck/wolgate/internal/services/wol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List the interfaces used by --all-interfaces",
	RunE:  listInterfaces,
}

func listInterfaces(cmd *cobra.Command, args []string) error {
	list, err := wol.SystemInterfaces{}.Interfaces()
	if err != nil {
		log.Error().Err(err).Msg("failed to list interfaces")
		return err
	}

	targets := wol.Qualifying(list)
	if len(targets) == 0 {
		fmt.Println("No non-loopback IPv4 interfaces found.")
		return nil
	}

	for _, iface := range targets {
		fmt.Printf("  %-12s %s\n", iface.Name, iface.Address)
	}
	return nil
}
