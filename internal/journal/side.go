package journal

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

// side holds every computation whose sign depends on the trade direction.
type side interface {
	pnl(entry, exit, quantity decimal.Decimal) decimal.Decimal
	riskDistance(entry, stop decimal.Decimal) decimal.Decimal
	rewardDistance(entry, target decimal.Decimal) decimal.Decimal
}

type longSide struct{}

func (longSide) pnl(entry, exit, quantity decimal.Decimal) decimal.Decimal {
	return exit.Sub(entry).Mul(quantity)
}

func (longSide) riskDistance(entry, stop decimal.Decimal) decimal.Decimal {
	return entry.Sub(stop)
}

func (longSide) rewardDistance(entry, target decimal.Decimal) decimal.Decimal {
	return target.Sub(entry)
}

type shortSide struct{}

func (shortSide) pnl(entry, exit, quantity decimal.Decimal) decimal.Decimal {
	return entry.Sub(exit).Mul(quantity)
}

func (shortSide) riskDistance(entry, stop decimal.Decimal) decimal.Decimal {
	return stop.Sub(entry)
}

func (shortSide) rewardDistance(entry, target decimal.Decimal) decimal.Decimal {
	return entry.Sub(target)
}

func sideOf(d model.Direction) side {
	if d == model.Short {
		return shortSide{}
	}
	return longSide{}
}
