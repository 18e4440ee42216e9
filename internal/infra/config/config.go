package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpPort int `default:"8080"`

	KafkaHost string `default:"localhost"`
	KafkaPort int    `default:"9092"`

	NewOrdersTopic       string `default:"new-orders"`
	PaidOrdersTopic      string `default:"paid-orders"`
	SentOrdersTopic      string `default:"sent-orders"`
	FailedPaymentsTopic  string `default:"failed_payments"`
	FailedShipmentsTopic string `default:"failed_shipments"`

	PaymentGroupID      string `default:"payment-group"`
	ShippingGroupID     string `default:"shipping-group"`
	NotificationGroupID string `default:"notification-group"`

	Workers      int           `default:"1"`
	BatchSize    int           `default:"100"`
	BatchMaxWait time.Duration `default:"500ms"`

	RetryMaxAttempts  int           `default:"3"`
	RetryInitialDelay time.Duration `default:"1s"`
	RetryMultiplier   float64       `default:"2.0"`

	PaymentSuccessRate  float64       `default:"0.9"`
	ShippingSuccessRate float64       `default:"0.95"`
	PackagingDelay      time.Duration `default:"500ms"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("ORDER_PIPELINE", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
