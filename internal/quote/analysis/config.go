package analysis

import "time"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig(baseURL string, timeoutSeconds int) *Config {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Config{
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}
