package journal

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

var hundred = decimal.NewFromInt(100)

// RiskInput is a planned trade, before it is opened.
type RiskInput struct {
	Direction  model.Direction `json:"direction"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	Quantity   decimal.Decimal `json:"quantity"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
}

// RiskResult is advisory only and never persisted.
type RiskResult struct {
	RiskDistance    decimal.Decimal `json:"riskDistance"`
	RewardDistance  decimal.Decimal `json:"rewardDistance"`
	RiskAmount      decimal.Decimal `json:"riskAmount"`
	RewardAmount    decimal.Decimal `json:"rewardAmount"`
	RiskPercent     decimal.Decimal `json:"riskPercent"`
	RewardRiskRatio decimal.Decimal `json:"rrRatio"`
}

// Validate checks the inputs a caller has to supply for a meaningful plan.
func (in RiskInput) Validate() error {
	if in.Direction != model.Long && in.Direction != model.Short {
		return invalid("direction", "must be long or short")
	}
	if !in.EntryPrice.IsPositive() {
		return invalid("entryPrice", "must be greater than zero")
	}
	if !in.Quantity.IsPositive() {
		return invalid("quantity", "must be greater than zero")
	}
	if !in.StopLoss.IsPositive() {
		return invalid("stopLoss", "must be greater than zero")
	}
	if !in.TakeProfit.IsPositive() {
		return invalid("takeProfit", "must be greater than zero")
	}
	return nil
}

// RiskReward computes risk and reward of a planned trade. The ratio is zero
// when there is no risk.
func RiskReward(in RiskInput) RiskResult {
	s := sideOf(in.Direction)
	riskDistance := s.riskDistance(in.EntryPrice, in.StopLoss)
	rewardDistance := s.rewardDistance(in.EntryPrice, in.TakeProfit)

	res := RiskResult{
		RiskDistance:    riskDistance,
		RewardDistance:  rewardDistance,
		RiskAmount:      riskDistance.Abs().Mul(in.Quantity),
		RewardAmount:    rewardDistance.Abs().Mul(in.Quantity),
		RiskPercent:     decimal.Zero,
		RewardRiskRatio: decimal.Zero,
	}
	if !in.EntryPrice.IsZero() {
		res.RiskPercent = riskDistance.Abs().Div(in.EntryPrice).Mul(hundred)
	}
	if !res.RiskAmount.IsZero() {
		res.RewardRiskRatio = res.RewardAmount.Div(res.RiskAmount)
	}
	return res
}
