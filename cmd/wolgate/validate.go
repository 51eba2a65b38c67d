package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validate the configuration file and environment without sending any packets.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	// Check if file exists
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			log.Error().Str("file", configFile).Msg("config file not found")
			return fmt.Errorf("config file not found: %s", configFile)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Server:")
	fmt.Printf("  Listen: %s\n", cfg.Server.Listen)
	fmt.Printf("  CORS origins: %v\n", cfg.Server.CORSOrigins)
	fmt.Println()
	fmt.Println("Wake-on-LAN:")
	if cfg.WOL.MACAddress != "" {
		fmt.Printf("  Default MAC Address: %s\n", cfg.WOL.MACAddress)
	} else {
		fmt.Printf("  Default MAC Address: (none, must be given per request)\n")
	}
	fmt.Printf("  Broadcast Address: %s\n", cfg.WOL.BroadcastAddress)
	fmt.Printf("  Port: %d\n", cfg.WOL.Port)
	fmt.Printf("  Send Timeout: %s\n", cfg.WOL.Timeout)
	fmt.Println()
	fmt.Println("Optional Features:")
	fmt.Printf("  Telegram: %v\n", cfg.Telegram != nil)

	if cfg.Telegram != nil {
		fmt.Println()
		fmt.Println("Telegram Configuration:")
		fmt.Printf("  Chat ID: %s\n", cfg.Telegram.ChatID)
		fmt.Printf("  Bot Token: (configured)\n")
	}

	return nil
}
