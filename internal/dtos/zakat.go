package dtos

type ZakatResponse struct {
	Wealth    float64 `json:"wealth"`
	Nisab     float64 `json:"nisab"`
	Wajib     bool    `json:"wajib"`
	AmountDue int64   `json:"amountDue"`
}
