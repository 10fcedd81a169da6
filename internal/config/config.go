package config

import "time"

// Config holds server configuration values.
type Config struct {
	HTTPAddr          string        `mapstructure:"http_addr" yaml:"http_addr"`
	IRCAddr           string        `mapstructure:"irc_addr" yaml:"irc_addr"`
	DBPath            string        `mapstructure:"db_path" yaml:"db_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	MaxNickLen        int           `mapstructure:"max_nick_len" yaml:"max_nick_len"`
	MaxMsgLen         int           `mapstructure:"max_msg_len" yaml:"max_msg_len"`
	ReplayCount       int           `mapstructure:"replay_count" yaml:"replay_count"`
	FloodWindow       time.Duration `mapstructure:"flood_window" yaml:"flood_window"`
	FloodBurst        int           `mapstructure:"flood_burst" yaml:"flood_burst"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		HTTPAddr:          ":8080",
		IRCAddr:           ":6667",
		DBPath:            "duplexd.db",
		LogLevel:          "info",
		MaxNickLen:        10,
		MaxMsgLen:         100,
		ReplayCount:       200,
		FloodWindow:       10 * time.Second,
		FloodBurst:        3,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
