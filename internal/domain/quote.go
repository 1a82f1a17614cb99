package domain

// DisplayQuote is the client-side advisory price. The authoritative charge
// is always computed by the ordering backend; this type exists so the two
// can never be conflated.
type DisplayQuote struct {
	AmountMinor     int64  `json:"amountMinor"`
	Currency        string `json:"currency"`
	IsDiscounted    bool   `json:"isDiscounted"`
	DiscountPercent int    `json:"discountPercent"`
	Breakdown       string `json:"breakdown"`
}
