package domain

import "time"

type Address struct {
	ComplexID *int64
	Street    string
	Building  string
	Entrance  string
	Floor     string
	Apartment string
	Intercom  string
}

// Volume holds the subscription sizing fields. Only meaningful for the
// monthly tariff; other tariffs keep the defaults and ignore it.
type Volume struct {
	BagsCount    int
	DurationDays int
	Frequency    Frequency
}

func DefaultVolume() Volume {
	return Volume{
		BagsCount:    1,
		DurationDays: 14,
		Frequency:    FrequencyEveryOtherDay,
	}
}

// OrderDraft accumulates the user's choices across wizard steps. It is owned
// exclusively by one wizard session and is never persisted.
type OrderDraft struct {
	TariffID     Tariff
	Address      Address
	Time         TimeSelection
	DeliveryDate time.Time
	Volume       Volume
	PickupMethod PickupMethod
	Comment      string
	SaveAddress  bool
}

func NewOrderDraft(tariff Tariff, now time.Time) *OrderDraft {
	return &OrderDraft{
		TariffID:     tariff,
		DeliveryDate: today(now).AddDate(0, 0, 1),
		Volume:       DefaultVolume(),
		PickupMethod: PickupDoor,
		SaveAddress:  true,
	}
}

// SelectSlot picks a discrete slot and clears the urgent sentinel.
func (d *OrderDraft) SelectSlot(id SlotID) {
	slot := id
	d.Time = TimeSelection{Slot: &slot}
}

// SelectUrgent sets the urgent sentinel. Urgent pickups are always for
// today, overriding any previously chosen date.
func (d *OrderDraft) SelectUrgent(now time.Time) {
	d.Time = TimeSelection{Urgent: true}
	d.DeliveryDate = today(now)
}

func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
