package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Kha-Noob/liteflow-sub002/pkg/mq"
	"github.com/Kha-Noob/liteflow-sub002/pkg/mysql"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	API       API                   `mapstructure:"api"`
	Database  mysql.Config          `mapstructure:"database"`
	Gateway   paymentgateway.Config `mapstructure:"gateway"`
	Reconcile Reconcile             `mapstructure:"reconcile"`
	RabbitMQ  mq.Config             `mapstructure:"rabbitmq"`
	Publisher Publisher             `mapstructure:"publisher"`
	Metrics   Metrics               `mapstructure:"metrics"`
}

type API struct {
	Port string `mapstructure:"port"`
	// ProxyHeader carries the client address when requests arrive through one of TrustedProxies.
	ProxyHeader    string   `mapstructure:"proxy_header"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type Reconcile struct {
	// AmountTolerance is in major currency units.
	AmountTolerance string `mapstructure:"amount_tolerance"`
}

type Publisher struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	Queue     string        `mapstructure:"queue"`
}

type Metrics struct {
	CollectInterval time.Duration `mapstructure:"collect_interval"`
}

func (r Reconcile) Tolerance() decimal.Decimal {
	tolerance, err := decimal.NewFromString(r.AmountTolerance)
	if err != nil {
		return decimal.Zero
	}
	return tolerance
}

func Load() (cfg *Config, err error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LITEFLOW")
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.proxy_header", "X-Forwarded-For")
	v.SetDefault("gateway.hash_algorithm", "sha512")
	v.SetDefault("gateway.version", "2.1.0")
	v.SetDefault("gateway.command", "pay")
	v.SetDefault("gateway.curr_code", "VND")
	v.SetDefault("gateway.locale", "vn")
	v.SetDefault("gateway.order_type", "other")
	v.SetDefault("gateway.amount_multiplier", 100)
	v.SetDefault("gateway.expire_after", 15*time.Minute)
	v.SetDefault("gateway.time_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("gateway.description_prefix", "Thanh toan giao dich")
	v.SetDefault("reconcile.amount_tolerance", "0.01")
	v.SetDefault("rabbitmq.connection_name", "liteflow-payment")
	v.SetDefault("publisher.interval", 30*time.Second)
	v.SetDefault("publisher.batch_size", 100)
	v.SetDefault("publisher.queue", "payment.settled")
	v.SetDefault("metrics.collect_interval", 15*time.Second)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Gateway.HashSecret == "" {
		errs = append(errs, errors.New("gateway.hash_secret is required"))
	}
	if c.Gateway.TmnCode == "" {
		errs = append(errs, errors.New("gateway.tmn_code is required"))
	}
	urls := []struct{ key, value string }{
		{"gateway.pay_url", c.Gateway.PayURL},
		{"gateway.return_url", c.Gateway.ReturnURL},
		{"gateway.result_page_url", c.Gateway.ResultPageURL},
	}
	for _, u := range urls {
		if err := validateAbsoluteURL(u.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.key, err))
		}
	}
	if c.Gateway.AmountMultiplier <= 0 {
		errs = append(errs, errors.New("gateway.amount_multiplier must be positive"))
	}

	tolerance, err := decimal.NewFromString(c.Reconcile.AmountTolerance)
	if err != nil || tolerance.IsNegative() {
		errs = append(errs, fmt.Errorf("reconcile.amount_tolerance %q is not a non-negative decimal",
			c.Reconcile.AmountTolerance))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

func validateAbsoluteURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%q is not an absolute url", raw)
	}
	return nil
}
