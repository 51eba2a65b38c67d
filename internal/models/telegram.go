package models

import "time"

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramMessage holds the data for a wake notification.
type TelegramMessage struct {
	Success       bool
	MACAddress    string
	Destination   string
	AllInterfaces bool
	StartTime     time.Time
	Duration      time.Duration

	// Attempt stats.
	Attempts int
	Failures int

	// Error info (if failed).
	ErrorMessage string
}

// TelegramResult holds the result of a Telegram notification.
type TelegramResult struct {
	MessageSent bool
	Error       error
}
