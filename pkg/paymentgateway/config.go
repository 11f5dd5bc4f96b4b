package paymentgateway

import "time"

type Config struct {
	TmnCode           string        `mapstructure:"tmn_code"`
	HashSecret        string        `mapstructure:"hash_secret"`
	HashAlgorithm     string        `mapstructure:"hash_algorithm"`
	PayURL            string        `mapstructure:"pay_url"`
	ReturnURL         string        `mapstructure:"return_url"`
	ResultPageURL     string        `mapstructure:"result_page_url"`
	Version           string        `mapstructure:"version"`
	Command           string        `mapstructure:"command"`
	CurrCode          string        `mapstructure:"curr_code"`
	Locale            string        `mapstructure:"locale"`
	OrderType         string        `mapstructure:"order_type"`
	AmountMultiplier  int64         `mapstructure:"amount_multiplier"`
	ExpireAfter       time.Duration `mapstructure:"expire_after"`
	TimeZone          string        `mapstructure:"time_zone"`
	DescriptionPrefix string        `mapstructure:"description_prefix"`
}
