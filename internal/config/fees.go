package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/hotel-backoffice/internal/finance"
)

// FeeSchedule resolves the fee rates for a property: a per-property entry
// from the schedule file when present, the defaults otherwise.
type FeeSchedule struct {
	Defaults   finance.Rates
	properties map[uint64]finance.Rates
}

// For returns the rates configured for propertyID.
func (s FeeSchedule) For(propertyID uint64) finance.Rates {
	if r, ok := s.properties[propertyID]; ok {
		return r
	}
	return s.Defaults
}

type rawRates struct {
	Tax        *string `yaml:"tax_rate"`
	TourismFee *string `yaml:"tourism_fee_rate"`
	Commission *string `yaml:"commission_rate"`
}

type rawSchedule struct {
	Defaults   rawRates            `yaml:"defaults"`
	Properties map[uint64]rawRates `yaml:"properties"`
}

// LoadFeeSchedule reads the YAML schedule at path.  An empty path yields a
// schedule holding only defaults.
func LoadFeeSchedule(path string, defaults finance.Rates) (FeeSchedule, error) {
	if path == "" {
		return FeeSchedule{Defaults: defaults}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FeeSchedule{}, fmt.Errorf("read fee schedule: %w", err)
	}
	return ParseFeeSchedule(data, defaults)
}

// ParseFeeSchedule decodes a schedule such as
//
//    defaults:
//      tax_rate: 0.05
//    properties:
//      7:
//        tourism_fee_rate: 0.04
//
// Keys left out inherit from the level above.
func ParseFeeSchedule(data []byte, defaults finance.Rates) (FeeSchedule, error) {
	var raw rawSchedule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return FeeSchedule{}, fmt.Errorf("parse fee schedule: %w", err)
	}
	base, err := raw.Defaults.apply(defaults)
	if err != nil {
		return FeeSchedule{}, fmt.Errorf("fee schedule defaults: %w", err)
	}
	s := FeeSchedule{Defaults: base, properties: make(map[uint64]finance.Rates, len(raw.Properties))}
	for id, r := range raw.Properties {
		rates, err := r.apply(base)
		if err != nil {
			return FeeSchedule{}, fmt.Errorf("fee schedule property %d: %w", id, err)
		}
		s.properties[id] = rates
	}
	return s, nil
}

func (r rawRates) apply(base finance.Rates) (finance.Rates, error) {
	out := base
	for _, f := range []struct {
		name string
		raw  *string
		dst  *decimal.Decimal
	}{
		{"tax_rate", r.Tax, &out.Tax},
		{"tourism_fee_rate", r.TourismFee, &out.TourismFee},
		{"commission_rate", r.Commission, &out.Commission},
	} {
		if f.raw == nil {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(*f.raw))
		if err != nil {
			return finance.Rates{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
			return finance.Rates{}, fmt.Errorf("%s must be between 0 and 1, got %s", f.name, v)
		}
		*f.dst = v
	}
	return out, nil
}
