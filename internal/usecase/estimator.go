package usecase

import "immobiliare-core/internal/domain/entity"

// RoomAreaSqm is the surface assumed for a single-room renovation.
const RoomAreaSqm = 25

// StyleCostTable maps a style name to its price per square meter.
type StyleCostTable struct {
	Rates       map[string]int
	DefaultRate int
}

// DefaultStyleCosts is the process-wide price list.
var DefaultStyleCosts = StyleCostTable{
	Rates: map[string]int{
		"Industrial": 600,
		"Modern":     800,
		"Classic":    1000,
	},
	DefaultRate: 1000,
}

func (t StyleCostTable) Rate(style string) int {
	if rate, ok := t.Rates[style]; ok {
		return rate
	}
	return t.DefaultRate
}

// Total is the midpoint cost before the ±10% band is applied.
func (t StyleCostTable) Total(style string, mode entity.RenovationMode, sqm int) int {
	area := RoomAreaSqm
	if mode == entity.ModeHouse {
		area = sqm
	}
	return t.Rate(style) * area
}

// Estimate returns the low and high bounds, 90% and 110% of the total, truncated.
func (t StyleCostTable) Estimate(style string, mode entity.RenovationMode, sqm int) (low, high int) {
	total := t.Total(style, mode, sqm)
	return total * 90 / 100, total * 110 / 100
}

type contractor struct {
	name       string
	multiplier int // percent of the total
	rating     float64
}

// Discount tiers come first and the premium studio last; the frontend renders them in this order.
var contractors = []contractor{
	{name: "EdilMilano Pro", multiplier: 90, rating: 4.8},
	{name: "RistrutturaFacile", multiplier: 85, rating: 4.5},
	{name: "Luxury Design Studio", multiplier: 120, rating: 4.9},
}

// ContractorQuotes derives the three synthetic quotes from a midpoint total.
func ContractorQuotes(total int) []entity.ContractorQuote {
	quotes := make([]entity.ContractorQuote, 0, len(contractors))
	for _, c := range contractors {
		quotes = append(quotes, entity.ContractorQuote{
			Name:   c.name,
			Price:  roundPercent(total, c.multiplier),
			Rating: c.rating,
		})
	}
	return quotes
}

func roundPercent(total, percent int) int {
	scaled := total * percent
	if scaled >= 0 {
		return (scaled + 50) / 100
	}
	return (scaled - 50) / 100
}
