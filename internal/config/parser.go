// Package config provides configuration loading from file and environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/fgeck/wolgate/internal/services/wol"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WOLGATE_WOL_MAC_ADDRESS for wol.mac_address.
const EnvPrefix = "WOLGATE"

// Parser handles configuration parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser with defaults and
// environment overrides registered.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.listen", ":3000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("wol.mac_address", "")
	v.SetDefault("wol.broadcast_address", wol.DefaultBroadcastAddress)
	v.SetDefault("wol.port", wol.DefaultPort)
	v.SetDefault("wol.timeout", 500*time.Millisecond)

	// Not defaulted: an empty token means Telegram is disabled.
	_ = v.BindEnv("telegram.bot_token")
	_ = v.BindEnv("telegram.chat_id")

	return &Parser{v: v}
}

// Load builds the configuration from defaults and environment only.
func (p *Parser) Load() (*models.Config, error) {
	return p.parse()
}

// LoadFile loads configuration from a file path. Environment variables
// still take precedence over file values.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{}

	cfg.Server = models.ServerConfig{
		Listen:      p.v.GetString("server.listen"),
		CORSOrigins: splitList(p.v.GetStringSlice("server.cors_origins")),
	}

	cfg.WOL = models.WOLConfig{
		MACAddress:       p.expandEnv(p.v.GetString("wol.mac_address")),
		BroadcastAddress: p.v.GetString("wol.broadcast_address"),
		Port:             p.v.GetInt("wol.port"),
		Timeout:          p.v.GetDuration("wol.timeout"),
	}

	if cfg.WOL.BroadcastAddress == "" {
		cfg.WOL.BroadcastAddress = wol.DefaultBroadcastAddress
	}
	if cfg.WOL.Port == 0 {
		cfg.WOL.Port = wol.DefaultPort
	}

	// Parse optional Telegram config.
	token := p.expandEnv(p.v.GetString("telegram.bot_token"))
	chatID := p.expandEnv(p.v.GetString("telegram.chat_id"))
	if token != "" || chatID != "" {
		cfg.Telegram = &models.TelegramConfig{
			BotToken: token,
			ChatID:   chatID,
		}

		if cfg.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if cfg.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// splitList also accepts a single comma separated entry, as environment
// variables produce.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Server.Listen); err != nil {
		return fmt.Errorf("server.listen %q: %w", cfg.Server.Listen, err)
	}

	if cfg.WOL.MACAddress != "" {
		if _, err := wol.ParseHardwareAddress(cfg.WOL.MACAddress); err != nil {
			return fmt.Errorf("wol.mac_address: %w", err)
		}
	}

	if net.ParseIP(cfg.WOL.BroadcastAddress).To4() == nil {
		return fmt.Errorf("wol.broadcast_address must be an IPv4 address, got %q", cfg.WOL.BroadcastAddress)
	}

	if cfg.WOL.Port < 1 || cfg.WOL.Port > 65535 {
		return fmt.Errorf("wol.port must be between 1 and 65535, got %d", cfg.WOL.Port)
	}

	if cfg.WOL.Timeout < 0 {
		return fmt.Errorf("wol.timeout must not be negative")
	}

	return nil
}
