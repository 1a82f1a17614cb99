package pricing

import (
	"fmt"
	"math"

	"ecovoz/internal/domain"
)

const (
	StandardCreditCost = 1
	// Urgent pickups consume two credits. Taken from the legacy order flow;
	// pending product confirmation.
	UrgentCreditCost = 2

	MaxBags = 10
)

// CreditCost is the number of balance credits a direct order consumes.
func CreditCost(urgent bool) int {
	if urgent {
		return UrgentCreditCost
	}
	return StandardCreditCost
}

type QuoteParams struct {
	Urgent          bool
	BagsCount       int
	DurationDays    int
	Frequency       domain.Frequency
	HasSubscription bool
}

// Engine computes display quotes. It is pure and never fails: out-of-range
// inputs clamp to the nearest valid value, since this feeds a price label,
// not a ledger.
type Engine struct {
	rates RateTable
}

func NewEngine(rates RateTable) *Engine {
	return &Engine{rates: rates}
}

func (e *Engine) Rates() RateTable {
	return e.rates
}

func (e *Engine) Quote(tariff domain.Tariff, p QuoteParams) domain.DisplayQuote {
	bags := clampInt(p.BagsCount, 1, MaxBags)
	days := p.DurationDays
	if days < 1 {
		days = domain.DefaultVolume().DurationDays
	}

	switch tariff {
	case domain.TariffTrial:
		return domain.DisplayQuote{
			AmountMinor: e.rates.Trial.Price,
			Currency:    "RUB",
			Breakdown:   e.rates.Trial.Description,
		}

	case domain.TariffMonthly:
		if !p.HasSubscription && isTrialEquivalent(days, p.Frequency, bags) {
			// Promotional override for first-time subscribers; takes
			// precedence over the duration discount.
			return domain.DisplayQuote{
				AmountMinor:  e.rates.Trial.Price,
				Currency:     "RUB",
				IsDiscounted: true,
				Breakdown:    "Спеццена для новых подписчиков",
			}
		}

		pickups := int(math.Ceil(float64(days) * p.Frequency.Multiplier()))
		if pickups < 1 {
			pickups = 1
		}
		raw := e.rates.Monthly.Price * int64(pickups) * int64(bags)
		discount := durationDiscount(days)
		amount := int64(math.Round(float64(raw) * float64(100-discount) / 100))

		breakdown := fmt.Sprintf("%d выносов × %s", pickups, formatMinor(e.rates.Monthly.Price))
		if bags > 1 {
			breakdown += fmt.Sprintf(" × %d пакета", bags)
		}
		if discount > 0 {
			breakdown += fmt.Sprintf(" − %d%%", discount)
		}
		return domain.DisplayQuote{
			AmountMinor:     amount,
			Currency:        "RUB",
			IsDiscounted:    discount > 0,
			DiscountPercent: discount,
			Breakdown:       breakdown,
		}

	default:
		// single; unknown tariffs clamp here as well
		if p.Urgent {
			return domain.DisplayQuote{
				AmountMinor: e.rates.UrgentPrice,
				Currency:    "RUB",
				Breakdown:   "Срочный вынос в течение часа",
			}
		}
		return domain.DisplayQuote{
			AmountMinor: e.rates.Single.Price * int64(bags),
			Currency:    "RUB",
			Breakdown:   fmt.Sprintf("%d × %s", bags, formatMinor(e.rates.Single.Price)),
		}
	}
}

// isTrialEquivalent reports whether the monthly parameters exactly match
// the trial package: 14 days, every other day, one bag.
func isTrialEquivalent(days int, freq domain.Frequency, bags int) bool {
	return days == 14 && freq == domain.FrequencyEveryOtherDay && bags == 1
}

func durationDiscount(days int) int {
	switch {
	case days >= 60:
		return 30
	case days >= 30:
		return 20
	case days >= 14:
		return 10
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatMinor(v int64) string {
	return fmt.Sprintf("%d.%02d ₽", v/100, v%100)
}
