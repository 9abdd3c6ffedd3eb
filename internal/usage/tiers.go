// ABOUTME: Plan tier constants that drive usage metric synthesis.
// ABOUTME: Plans match case-insensitively; unknown or blank plans fall back to Free. Tiers can be overridden from config.

package usage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Plan names with built-in tiers.
const (
	PlanFree       = "Free"
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"
)

// Range is an inclusive-exclusive [Min, Max) interval for uniform draws.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Tier holds the base constants for one subscription plan.
type Tier struct {
	APICallsBase     float64 `mapstructure:"api_calls_base"`
	ComputeHoursBase float64 `mapstructure:"compute_hours_base"`
	StorageGBBase    float64 `mapstructure:"storage_gb_base"`
	ModelSizeGB      Range   `mapstructure:"model_size_gb"`
	LatencyMS        Range   `mapstructure:"latency_ms"`
	MaxModels        int     `mapstructure:"max_models"`
	CostPerSeat      float64 `mapstructure:"cost_per_seat"`
}

// Tiers maps a plan name to its constants.
type Tiers map[string]Tier

var defaultTiers = Tiers{
	PlanFree: {
		APICallsBase:     5000,
		ComputeHoursBase: 5,
		StorageGBBase:    2,
		ModelSizeGB:      Range{0.1, 1.5},
		LatencyMS:        Range{100, 500},
		MaxModels:        2,
		CostPerSeat:      0,
	},
	PlanPro: {
		APICallsBase:     50000,
		ComputeHoursBase: 40,
		StorageGBBase:    20,
		ModelSizeGB:      Range{0.5, 5},
		LatencyMS:        Range{50, 200},
		MaxModels:        10,
		CostPerSeat:      25,
	},
	PlanEnterprise: {
		APICallsBase:     200000,
		ComputeHoursBase: 200,
		StorageGBBase:    100,
		ModelSizeGB:      Range{1, 20},
		LatencyMS:        Range{20, 100},
		MaxModels:        50,
		CostPerSeat:      100,
	},
}

// DefaultTiers returns a copy of the built-in tiers.
func DefaultTiers() Tiers {
	out := make(Tiers, len(defaultTiers))
	for k, v := range defaultTiers {
		out[k] = v
	}
	return out
}

// Lookup finds the tier for plan. Names match case-insensitively; an exact match wins.
func (ts Tiers) Lookup(plan string) (Tier, bool) {
	if t, ok := ts[plan]; ok {
		return t, true
	}
	for name, t := range ts {
		if strings.EqualFold(name, plan) {
			return t, true
		}
	}
	return Tier{}, false
}

// For returns the tier for plan, falling back to Free for unknown or blank plans.
func (ts Tiers) For(plan string) Tier {
	if t, ok := ts.Lookup(plan); ok {
		return t
	}
	if t, ok := ts[PlanFree]; ok {
		return t
	}
	return defaultTiers[PlanFree]
}

// Validate checks that a tier's constants can produce sane metrics.
func (t Tier) Validate() error {
	switch {
	case t.APICallsBase < 0, t.ComputeHoursBase < 0, t.StorageGBBase < 0, t.CostPerSeat < 0:
		return fmt.Errorf("base values must not be negative")
	case t.MaxModels < 1:
		return fmt.Errorf("max_models must be at least 1, got %d", t.MaxModels)
	case t.ModelSizeGB.Min > t.ModelSizeGB.Max:
		return fmt.Errorf("model_size_gb min %v exceeds max %v", t.ModelSizeGB.Min, t.ModelSizeGB.Max)
	case t.LatencyMS.Min > t.LatencyMS.Max:
		return fmt.Errorf("latency_ms min %v exceeds max %v", t.LatencyMS.Min, t.LatencyMS.Max)
	}
	return nil
}

// Apply merges partial overrides into a copy of ts. Keys match existing plans
// case-insensitively since config keys arrive lowercased; an unknown key adds
// a new plan that starts from the Free constants.
func (ts Tiers) Apply(overrides map[string]map[string]interface{}) (Tiers, error) {
	out := make(Tiers, len(ts))
	for k, v := range ts {
		out[k] = v
	}

	for key, raw := range overrides {
		name := key
		for existing := range out {
			if strings.EqualFold(existing, key) {
				name = existing
				break
			}
		}
		// Rows naming a new plan in any case find it through Lookup.

		tier := out.For(name)
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(RangeDecodeHook()),
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &tier,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("tier %q: %w", key, err)
		}
		if err := tier.Validate(); err != nil {
			return nil, fmt.Errorf("tier %q: %w", key, err)
		}
		out[name] = tier
	}
	return out, nil
}

// RangeDecodeHook decodes a Range from "min,max" strings or two-element lists.
func RangeDecodeHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Range{}) {
			return data, nil
		}

		var parts []string
		switch v := data.(type) {
		case string:
			parts = strings.Split(v, ",")
		case []interface{}:
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
		default:
			return data, nil
		}

		if len(parts) != 2 {
			return nil, fmt.Errorf("range needs exactly two values, got %d", len(parts))
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("range min: %w", err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("range max: %w", err)
		}
		return Range{Min: lo, Max: hi}, nil
	}
}
