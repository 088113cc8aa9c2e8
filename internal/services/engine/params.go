package engine

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Params configures a run. The zero value is not usable; start from DefaultParams.
type Params struct {
	InitialBalance float64 `default:"3000" validate:"gt=0"`
	Stake          float64 `default:"10" validate:"gt=0"`
	// Gain is the take-profit distance in percent of the entry price.
	Gain float64 `default:"1.0" validate:"gte=0"`
	// ProfitShare is the fraction of each realized profit moved to the wallet.
	ProfitShare float64 `default:"0.5" validate:"gte=0,lte=1"`
	LotStep     float64 `default:"1" validate:"gt=0"`
	PriceStep   float64 `default:"0.0001" validate:"gt=0"`
	Commission  float64 `default:"0.001" validate:"gte=0,lt=1"`
	// IntervalMinutes is the candle length, used to pad holding time.
	IntervalMinutes int `default:"15" validate:"gt=0"`
	// SuccessWindow is the holding time, in seconds, under which a close counts as successful.
	SuccessWindow int64 `default:"43200" validate:"gt=0"`
	// AllowZeroQuantity opens positions even when the stake rounds below one lot.
	AllowZeroQuantity bool
}

var validate = validator.New()

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	var p Params
	defaults.MustSet(&p)
	return p
}

func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
