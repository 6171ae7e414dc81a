package provider

import (
	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// Validate enforces the invariants every adapter must deliver: a finite
// positive price and a non-empty, strictly ascending history of finite
// positive closes. Adapters call this as their last step.
func Validate(data *models.StockData) error {
	if data.Symbol == "" {
		return ValidationError("empty symbol")
	}
	if !util.IsFinite(data.Price) || data.Price <= 0 {
		return ValidationError("price %v is not a positive finite number", data.Price)
	}
	if len(data.History) == 0 {
		return ValidationError("empty history")
	}
	for i, bar := range data.History {
		if !util.IsFinite(bar.Close) || bar.Close <= 0 {
			return ValidationError("bar %d (%s): close %v is not a positive finite number", i, bar.Date, bar.Close)
		}
	}
	if err := data.History.Validate(); err != nil {
		return ValidationError("%v", err)
	}
	return nil
}

// ChangeFrom derives the absolute and percentage move from the previous
// close. Both are zero when the previous close is unusable.
func ChangeFrom(price, previousClose float64) (change, changePercent float64) {
	if !util.IsFinite(previousClose) || previousClose <= 0 {
		return 0, 0
	}
	change = price - previousClose
	return util.Round2(change), util.Round2(change / previousClose * 100)
}
