package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/challengegame/negotiator/internal/budget"
	"github.com/challengegame/negotiator/internal/catalog"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the policy catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, area := range catalog.Areas() {
			fmt.Fprintln(cmd.OutOrStdout(), color.CyanString(area.Title)+" ("+area.ID+")")
			for _, opt := range area.Options {
				fmt.Fprintf(cmd.OutOrStdout(), "  [%s] tier %d  %s\n", opt.ID, opt.Tier, opt.Title)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nBudget: %d units total, one option per area, at least two tiers.\n", budget.MaxUnits)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [option-id ...]",
	Short: "Validate a policy selection against the budget rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selections, err := catalog.Selections(args...)
		if err != nil {
			return err
		}
		res := budget.Validate(selections)

		fmt.Fprintf(cmd.OutOrStdout(), "Units: %d / %d (remaining %d)\n",
			res.TotalUnits, budget.MaxUnits, budget.RemainingUnits(selections))
		for _, w := range res.Warnings {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("warning: ")+w)
		}
		if res.IsValid {
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Selection is valid."))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.RedString("Selection is not valid."))
		return fmt.Errorf("selection failed validation")
	},
}
