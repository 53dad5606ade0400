package config

import "github.com/MonkyMars/gecho"

// LogLevel is info in production and debug everywhere else.
func (c *Config) LogLevel() string {
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

func NewLogger(cfg *Config) *gecho.Logger {
	level := gecho.ParseLogLevel(cfg.LogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(!cfg.IsProduction()), gecho.WithLogLevel(level)))
}
