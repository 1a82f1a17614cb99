package domain

// SlotID is one of the four fixed day-part pickup windows.
type SlotID int

const (
	SlotMorning SlotID = 1
	SlotDay     SlotID = 2
	SlotEvening SlotID = 3
	SlotNight   SlotID = 4
)

// UrgentWireSlot is the representative slot string an urgent order is
// submitted with. Fulfillment is "within the hour", but the backend order
// schema always requires a discrete slot.
const UrgentWireSlot = "12:00-14:00"

var slotWireStrings = map[SlotID]string{
	SlotMorning: "08:00-10:00",
	SlotDay:     "12:00-14:00",
	SlotEvening: "16:00-18:00",
	SlotNight:   "20:00-22:00",
}

var slotLabels = map[SlotID]string{
	SlotMorning: "Утро",
	SlotDay:     "День",
	SlotEvening: "Вечер",
	SlotNight:   "Ночь",
}

func ValidSlot(id SlotID) bool {
	_, ok := slotWireStrings[id]
	return ok
}

func (s SlotID) WireString() string {
	return slotWireStrings[s]
}

func (s SlotID) Label() string {
	return slotLabels[s]
}

// TimeSelection is either a discrete slot or the urgent sentinel, never
// both. Zero value means nothing selected yet.
type TimeSelection struct {
	Slot   *SlotID
	Urgent bool
}

func (t TimeSelection) Selected() bool {
	return t.Urgent || t.Slot != nil
}

// WireString resolves the backend-facing slot string.
func (t TimeSelection) WireString() string {
	if t.Urgent {
		return UrgentWireSlot
	}
	if t.Slot != nil {
		return t.Slot.WireString()
	}
	return ""
}
