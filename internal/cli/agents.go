package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/challengegame/negotiator/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the stakeholder roster",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range agents.Roster() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s, %d\n",
				color.CyanString(p.Name), p.Role, p.Age)
			fmt.Fprintf(cmd.OutOrStdout(), "  stance: %s\n", p.Stance)
			fmt.Fprintf(cmd.OutOrStdout(), "  concerns: %s\n", strings.Join(p.Concerns, ", "))
		}
	},
}
