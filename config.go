package goldesk

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCurrency is the local currency of the desk.
const DefaultCurrency = "TRY"

// DefaultSource is the quote source read by default.
const DefaultSource = "HAREM"

// Config is the operator configuration of the desk: its catalog with margin
// rules, its banks and its opening cash.
type Config struct {
	Currency    string
	QuoteSource string
	OpeningCash Money
	Catalog     Catalog
	Banks       Banks
}

// DefaultConfig returns the configuration of a new desk, the default catalog
// and no bank.
func DefaultConfig() *Config {
	return &Config{
		Currency:    DefaultCurrency,
		QuoteSource: DefaultSource,
		OpeningCash: M(0, DefaultCurrency),
		Catalog:     DefaultCatalog(),
	}
}

// yamlConfig is the file representation of Config.
type yamlConfig struct {
	Currency    string        `yaml:"currency" validate:"required,len=3,uppercase"`
	Source      string        `yaml:"source" validate:"required"`
	OpeningCash float64       `yaml:"opening_cash"`
	Products    []yamlProduct `yaml:"products" validate:"required,min=1,dive"`
	Banks       []yamlBank    `yaml:"banks,omitempty" validate:"omitempty,dive"`
}

type yamlProduct struct {
	Code    string   `yaml:"code" validate:"required"`
	Name    string   `yaml:"name" validate:"required"`
	Unit    string   `yaml:"unit" validate:"required,oneof=piece gram"`
	Weight  float64  `yaml:"weight" validate:"gt=0"`
	Purity  float64  `yaml:"purity" validate:"gt=0,lte=1"`
	Aliases []string `yaml:"aliases,flow" validate:"required,min=1,dive,required"`
	Rule    yamlRule `yaml:"rule"`
}

type yamlRule struct {
	Kind string  `yaml:"kind" validate:"required,oneof=flat side"`
	Buy  float64 `yaml:"buy"`
	Sell float64 `yaml:"sell"`
}

type yamlBank struct {
	Name           string  `yaml:"name" validate:"required"`
	CardFee        float64 `yaml:"card_fee" validate:"gte=0,lt=100"`
	AdvanceFee     float64 `yaml:"advance_fee" validate:"gte=0,lt=100"`
	SettlementDays int     `yaml:"settlement_days" validate:"gte=0"`
	OpeningBalance float64 `yaml:"opening_balance"`
}

var validate = validator.New()

// check validates the struct tags then the cross-field rules.
func (y *yamlConfig) check() error {
	if err := validate.Struct(y); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		errs := make([]error, 0, len(verrs))
		for _, ve := range verrs {
			errs = append(errs, fmt.Errorf("%w: %s fails %q", ErrInvalid, ve.Namespace(), ve.Tag()))
		}
		return errors.Join(errs...)
	}
	var errs []error
	codes := make(map[string]bool)
	for _, p := range y.Products {
		code := fold(p.Code)
		if codes[code] {
			errs = append(errs, fmt.Errorf("%w: duplicate product code %q", ErrInvalid, p.Code))
		}
		codes[code] = true
	}
	banks := make(map[string]bool)
	for _, b := range y.Banks {
		name := fold(b.Name)
		if banks[name] {
			errs = append(errs, fmt.Errorf("%w: duplicate bank %q", ErrInvalid, b.Name))
		}
		banks[name] = true
	}
	return errors.Join(errs...)
}

func (y *yamlConfig) config() (*Config, error) {
	cfg := &Config{
		Currency:    y.Currency,
		QuoteSource: y.Source,
		OpeningCash: M(y.OpeningCash, y.Currency),
	}
	for _, p := range y.Products {
		unit, err := ParseUnit(p.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: product %s: %w", ErrInvalid, p.Code, err)
		}
		kind, err := ParseRuleKind(p.Rule.Kind)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.Code, err)
		}
		cfg.Catalog = append(cfg.Catalog, Product{
			Code:           p.Code,
			Name:           p.Name,
			Unit:           unit,
			StandardWeight: Q(p.Weight),
			Purity:         Q(p.Purity),
			Aliases:        p.Aliases,
			Rule: MarginRule{
				Kind:       kind,
				BuyOffset:  M(p.Rule.Buy, y.Currency),
				SellOffset: M(p.Rule.Sell, y.Currency),
			},
		})
	}
	for _, b := range y.Banks {
		cfg.Banks = append(cfg.Banks, Bank{
			Name:                  b.Name,
			CardFeePercent:        P(b.CardFee),
			CashAdvanceFeePercent: P(b.AdvanceFee),
			SettlementDays:        b.SettlementDays,
			OpeningBalance:        M(b.OpeningBalance, y.Currency),
		})
	}
	return cfg, nil
}

func float(d decimal.Decimal) float64 { return d.InexactFloat64() }

func (c *Config) yaml() *yamlConfig {
	y := &yamlConfig{
		Currency:    c.Currency,
		Source:      c.QuoteSource,
		OpeningCash: float(c.OpeningCash.Decimal()),
	}
	for _, p := range c.Catalog {
		y.Products = append(y.Products, yamlProduct{
			Code:    p.Code,
			Name:    p.Name,
			Unit:    string(p.Unit),
			Weight:  float(p.StandardWeight.Decimal()),
			Purity:  float(p.Purity.Decimal()),
			Aliases: p.Aliases,
			Rule: yamlRule{
				Kind: string(p.Rule.Kind),
				Buy:  float(p.Rule.BuyOffset.Decimal()),
				Sell: float(p.Rule.SellOffset.Decimal()),
			},
		})
	}
	for _, b := range c.Banks {
		y.Banks = append(y.Banks, yamlBank{
			Name:           b.Name,
			CardFee:        float(b.CardFeePercent.Decimal()),
			AdvanceFee:     float(b.CashAdvanceFeePercent.Decimal()),
			SettlementDays: b.SettlementDays,
			OpeningBalance: float(b.OpeningBalance.Decimal()),
		})
	}
	return y
}

// Validate checks the configuration.
func (c *Config) Validate() error { return c.yaml().check() }

// ParseConfig decodes and validates a YAML configuration. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var y yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil {
		return nil, fmt.Errorf("%w: cannot decode configuration: %w", ErrInvalid, err)
	}
	if err := y.check(); err != nil {
		return nil, err
	}
	return y.config()
}

// Marshal encodes the configuration in YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.yaml()); err != nil {
		return nil, fmt.Errorf("cannot encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("configuration %q: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig validates then writes the configuration to path.
func (c *Config) SaveConfig(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write configuration %q: %w", path, err)
	}
	return nil
}
