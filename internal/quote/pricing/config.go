package pricing

import "time"

// Config holds the quote calculator endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig builds a pricing config, defaulting the timeout to 30 seconds.
func LoadConfig(baseURL string, timeoutSeconds int) *Config {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Config{
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}
