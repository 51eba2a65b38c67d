// Package models contains the data structures used throughout wolgate.
package models

import "time"

// Config holds the complete process configuration. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	Server   ServerConfig
	WOL      WOLConfig
	Telegram *TelegramConfig // nil if not configured
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Listen      string
	CORSOrigins []string // "*" allows any origin
}

// WOLConfig holds the Wake-on-LAN defaults applied when a request leaves a
// field empty.
type WOLConfig struct {
	MACAddress       string // optional fallback target
	BroadcastAddress string
	Port             int
	Timeout          time.Duration // bound for a single send attempt
}
