package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradejournal/internal/journal"
	"tradejournal/internal/model"
)

var (
	riskDirection string
	riskEntry     string
	riskQuantity  string
	riskStop      string
	riskTarget    string
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Compute risk and reward of a planned trade",
	Long: `Risk prints the risk amount, reward amount and reward:risk ratio of a
planned trade. Nothing is stored.

Example:
  tradejournal risk --direction long --entry 100 --qty 5 --stop 90 --target 130`,
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().StringVarP(&riskDirection, "direction", "d", "long", "trade direction (long, short)")
	riskCmd.Flags().StringVarP(&riskEntry, "entry", "e", "", "entry price (required)")
	riskCmd.Flags().StringVarP(&riskQuantity, "qty", "q", "", "position size (required)")
	riskCmd.Flags().StringVarP(&riskStop, "stop", "s", "", "stop-loss price (required)")
	riskCmd.Flags().StringVarP(&riskTarget, "target", "t", "", "take-profit price (required)")

	riskCmd.MarkFlagRequired("entry")
	riskCmd.MarkFlagRequired("qty")
	riskCmd.MarkFlagRequired("stop")
	riskCmd.MarkFlagRequired("target")
}

func runRisk(cmd *cobra.Command, args []string) error {
	direction, err := model.ParseDirection(riskDirection)
	if err != nil {
		return err
	}

	in := journal.RiskInput{Direction: direction}
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"entry", riskEntry, &in.EntryPrice},
		{"qty", riskQuantity, &in.Quantity},
		{"stop", riskStop, &in.StopLoss},
		{"target", riskTarget, &in.TakeProfit},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = d
	}
	if err := in.Validate(); err != nil {
		return err
	}

	res := journal.RiskReward(in)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "direction:     %s\n", in.Direction)
	fmt.Fprintf(out, "risk:          %s (%s%% of entry)\n", res.RiskAmount.StringFixed(2), res.RiskPercent.StringFixed(2))
	fmt.Fprintf(out, "reward:        %s\n", res.RewardAmount.StringFixed(2))
	fmt.Fprintf(out, "reward:risk:   %s\n", res.RewardRiskRatio.StringFixed(2))
	return nil
}
