package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidParams = errors.New("invalid params")

	ErrEmptyCandles     = fmt.Errorf("%w: empty candle sequence", ErrInvalidInput)
	ErrUnorderedCandles = fmt.Errorf("%w: candle open times must be strictly increasing", ErrInvalidInput)
	ErrBadOpenPrice     = fmt.Errorf("%w: candle open price must be positive", ErrInvalidInput)
	ErrSignalLength     = fmt.Errorf("%w: positional signal length differs from candle count", ErrInvalidInput)
	ErrNilSignal        = fmt.Errorf("%w: nil signal", ErrInvalidInput)
)
