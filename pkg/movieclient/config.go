package movieclient

import "time"

type Config struct {
	Enable  bool          `mapstructure:"enable"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}
