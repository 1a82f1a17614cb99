package domain

// Tariff identifies the pricing plan the user selected before entering the
// wizard. It is immutable for the lifetime of a wizard session.
type Tariff string

const (
	TariffSingle  Tariff = "single"
	TariffTrial   Tariff = "trial"
	TariffMonthly Tariff = "monthly"
)

func ParseTariff(s string) (Tariff, bool) {
	switch Tariff(s) {
	case TariffSingle, TariffTrial, TariffMonthly:
		return Tariff(s), true
	}
	return "", false
}

type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyTwiceWeek     Frequency = "twice_week"
)

// Multiplier converts a subscription duration in days into a pickup count
// factor. Unknown values clamp to every-other-day.
func (f Frequency) Multiplier() float64 {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyEveryOtherDay:
		return 0.5
	case FrequencyTwiceWeek:
		return 2.0 / 7.0
	}
	return 0.5
}

type PickupMethod string

const (
	PickupDoor PickupMethod = "door"
	PickupHand PickupMethod = "hand"
)

// CourierNote is the instruction string sent to the backend in the order
// comment field.
func (m PickupMethod) CourierNote() string {
	if m == PickupHand {
		return "Передать лично в руки, позвонить в дверь/телефон"
	}
	return "Оставить у двери"
}
