package model

import "time"

type InstrumentType string

const (
	TypeStock      InstrumentType = "STOCK"
	TypeETF        InstrumentType = "ETF"
	TypeMutualFund InstrumentType = "MUTUAL_FUND"
)

type Instrument struct {
	ID              int64
	Symbol          string
	ISIN            string
	Name            string
	Type            InstrumentType
	AMC             string
	Category        string
	PriceHistory    []PricePoint
	Holdings        []Holding
	RelatedEntities []string
	LastUpdated     *time.Time
}

// Stale reports whether the instrument has never been refreshed or was
// last refreshed before the cutoff.
func (i *Instrument) Stale(cutoff time.Time) bool {
	return i.LastUpdated == nil || i.LastUpdated.Before(cutoff)
}

type PricePoint struct {
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
}

type Holding struct {
	CompanyName   string  `json:"company_name"`
	Symbol        string  `json:"symbol"`
	WeightPercent float64 `json:"weight_percent"`
}
