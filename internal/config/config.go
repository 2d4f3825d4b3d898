package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/cinefund/pkg/movieclient"
	"github.com/Behyna/cinefund/pkg/mq"
	"github.com/Behyna/cinefund/pkg/mysql"
	"github.com/Behyna/cinefund/pkg/walletgateway"
	"github.com/spf13/viper"
)

const EnvPrefix = "FUNDING"

type Config struct {
	API      API                  `mapstructure:"api"`
	Database mysql.Config         `mapstructure:"database"`
	RabbitMQ mq.Config            `mapstructure:"rabbitmq"`
	Wallet   walletgateway.Config `mapstructure:"wallet"`
	Movie    movieclient.Config   `mapstructure:"movie"`
	Worker   Worker               `mapstructure:"worker"`
	Metrics  Metrics              `mapstructure:"metrics"`
}

type API struct {
	Port        string `mapstructure:"port"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type Worker struct {
	PublishInterval time.Duration `mapstructure:"publish_interval"`
	BatchSize       int           `mapstructure:"batch_size"`
}

type Metrics struct {
	Port             string        `mapstructure:"port"`
	SystemInterval   time.Duration `mapstructure:"system_interval"`
	DatabaseInterval time.Duration `mapstructure:"database_interval"`
}

func Load() (cfg *Config, err error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.auto_migrate", true)
	v.SetDefault("rabbitmq.prefetch", 10)
	v.SetDefault("rabbitmq.heartbeat", 10*time.Second)
	v.SetDefault("wallet.timeout", 5*time.Second)
	v.SetDefault("wallet.max_retries", 3)
	v.SetDefault("wallet.retry_backoff", 200*time.Millisecond)
	v.SetDefault("movie.timeout", 5*time.Second)
	v.SetDefault("worker.publish_interval", 30*time.Second)
	v.SetDefault("worker.batch_size", 100)
	v.SetDefault("metrics.port", ":9100")
	v.SetDefault("metrics.system_interval", 15*time.Second)
	v.SetDefault("metrics.database_interval", 30*time.Second)
}
