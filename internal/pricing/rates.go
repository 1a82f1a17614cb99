package pricing

import (
	_ "embed"
	"fmt"

	"ecovoz/internal/infrastructure/backend"

	"go.yaml.in/yaml/v3"
)

//go:embed rates.yaml
var fallbackRates []byte

type Rate struct {
	Price       int64  `yaml:"price"`
	OldPrice    int64  `yaml:"old_price"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

// RateTable holds the display prices in minor units. Monthly.Price is per
// pickup; UrgentPrice is the flat urgent fee.
type RateTable struct {
	Single      Rate  `yaml:"single"`
	Trial       Rate  `yaml:"trial"`
	Monthly     Rate  `yaml:"monthly"`
	UrgentPrice int64 `yaml:"urgent_price"`
}

// DefaultRates returns the embedded fallback table. The table ships with
// the binary so a failed tariff fetch never blanks the price display.
func DefaultRates() RateTable {
	var t RateTable
	if err := yaml.Unmarshal(fallbackRates, &t); err != nil {
		panic(fmt.Sprintf("embedded rate table is invalid: %v", err))
	}
	return t
}

// MergeTariffs overlays backend tariff rows onto the table. Backend prices
// are whole rubles; rows the backend does not provide keep their fallback.
func (t RateTable) MergeTariffs(infos []backend.TariffInfo) RateTable {
	for _, info := range infos {
		if !info.IsActive || info.Price <= 0 {
			continue
		}
		rate := Rate{
			Price:       info.Price * 100,
			OldPrice:    info.OldPrice * 100,
			Period:      info.Period,
			Description: info.Description,
		}
		if info.IsUrgent {
			t.UrgentPrice = rate.Price
			continue
		}
		switch info.TariffID {
		case "single":
			t.Single = rate
		case "trial":
			t.Trial = rate
		case "monthly":
			t.Monthly = rate
		}
	}
	return t
}
