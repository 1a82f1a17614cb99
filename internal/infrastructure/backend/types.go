package backend

// Wire types for the ordering backend. Field names follow the backend's
// JSON contract and must not drift.

type TariffInfo struct {
	TariffID    string `json:"tariff_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // whole rubles
	OldPrice    int64  `json:"old_price"`
	Period      string `json:"period"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	IsUrgent    bool   `json:"is_urgent"`
}

type Complex struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"short_name,omitempty"`
	Buildings []string `json:"buildings,omitempty"`
}

type SavedAddress struct {
	ID          int64  `json:"id"`
	ComplexID   *int64 `json:"complex_id,omitempty"`
	ComplexName string `json:"complex_name,omitempty"`
	Street      string `json:"street,omitempty"`
	Building    string `json:"building"`
	Entrance    string `json:"entrance,omitempty"`
	Floor       string `json:"floor,omitempty"`
	Apartment   string `json:"apartment"`
	Intercom    string `json:"intercom,omitempty"`
	IsDefault   bool   `json:"is_default"`
}

type Balance struct {
	Credits       int `json:"credits"`
	SingleCredits int `json:"single_credits"`
}

type Subscription struct {
	ID       int64  `json:"id"`
	Tariff   string `json:"tariff"`
	IsActive bool   `json:"is_active"`
}

type CreateAddressRequest struct {
	ComplexID *int64 `json:"complex_id,omitempty"`
	Street    string `json:"street,omitempty"`
	Building  string `json:"building"`
	Entrance  string `json:"entrance"`
	Floor     string `json:"floor"`
	Apartment string `json:"apartment"`
	Intercom  string `json:"intercom"`
	IsDefault bool   `json:"is_default"`
}

type CreatedAddress struct {
	ID int64 `json:"id"`
}

type TariffDetails struct {
	BagsCount int    `json:"bags_count"`
	Duration  int    `json:"duration,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

type CreateOrderRequest struct {
	AddressID     int64          `json:"address_id"`
	Date          string         `json:"date"` // YYYY-MM-DD
	TimeSlot      string         `json:"time_slot"`
	IsUrgent      bool           `json:"is_urgent"`
	Comment       string         `json:"comment,omitempty"`
	TariffType    string         `json:"tariff_type,omitempty"`
	TariffDetails *TariffDetails `json:"tariff_details,omitempty"`
}

type CreatedOrder struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type CreatedPayment struct {
	ConfirmationURL string `json:"confirmation_url"`
}

type AdminOrder struct {
	ID             int64  `json:"id"`
	AddressDetails string `json:"address_details"`
	TimeSlot       string `json:"time_slot"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	Comment        string `json:"comment,omitempty"`
}

type TariffUpdate struct {
	Name        string `json:"name,omitempty"`
	Price       int64  `json:"price,omitempty"`
	OldPrice    int64  `json:"old_price,omitempty"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}
