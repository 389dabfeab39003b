package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegisterConfig holds the presets a register screen offers the cashier.
type RegisterConfig struct {
	PaymentMethods       []string `yaml:"payment_methods"`
	DefaultPaymentMethod string   `yaml:"default_payment_method"`
	QuickAmounts         []int64  `yaml:"quick_amounts"`
}

func DefaultRegister() RegisterConfig {
	return RegisterConfig{
		PaymentMethods:       []string{"cash", "transfer", "card"},
		DefaultPaymentMethod: "cash",
		QuickAmounts:         []int64{100, 500, 1000, 5000},
	}
}

// LoadRegister overlays the YAML file at path on top of the defaults. A
// missing file is not an error.
func LoadRegister(path string) (RegisterConfig, error) {
	cfg := DefaultRegister()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read register config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse register config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c RegisterConfig) Validate() error {
	if len(c.PaymentMethods) == 0 {
		return errors.New("register config: at least one payment method is required")
	}
	if !c.HasPaymentMethod(c.DefaultPaymentMethod) {
		return fmt.Errorf("register config: default payment method %q is not listed", c.DefaultPaymentMethod)
	}
	for _, amount := range c.QuickAmounts {
		if amount <= 0 {
			return fmt.Errorf("register config: quick amount %d must be positive", amount)
		}
	}
	return nil
}

func (c RegisterConfig) HasPaymentMethod(method string) bool {
	for _, m := range c.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
