package httpapi

import "time"

// Config defines how the moderation API is reached.
type Config struct {
	BaseURL   string
	BasePath  string
	UIPath    string
	Timeout   time.Duration
	UserAgent string
}
