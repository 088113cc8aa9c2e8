package engine

import (
	"fmt"

	"NYCalc/internal/domain/models"
)

func checkCandles(candles []models.Candle) error {
	if len(candles) == 0 {
		return ErrEmptyCandles
	}
	for i, c := range candles {
		if !(c.Open > 0) {
			return fmt.Errorf("%w (index %d)", ErrBadOpenPrice, i)
		}
		if i > 0 && c.OpenTime <= candles[i-1].OpenTime {
			return fmt.Errorf("%w (index %d)", ErrUnorderedCandles, i)
		}
	}
	return nil
}

func checkSignal(s models.Signal, candles int) error {
	if s == nil {
		return ErrNilSignal
	}
	if pos, ok := s.(models.Positional); ok && pos.Len() != candles {
		return fmt.Errorf("%w: %d flags for %d candles", ErrSignalLength, pos.Len(), candles)
	}
	return nil
}

func checkRun(candles []models.Candle, signals []models.Signal, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := checkCandles(candles); err != nil {
		return err
	}
	for i, s := range signals {
		if err := checkSignal(s, len(candles)); err != nil {
			return fmt.Errorf("actor %d: %w", i, err)
		}
	}
	return nil
}
