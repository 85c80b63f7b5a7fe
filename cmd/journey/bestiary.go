package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-journey/internal/content"
)

func newBestiaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bestiary",
		Short: "List the adversaries",
		RunE:  runBestiary,
	}
}

func runBestiary(cmd *cobra.Command, _ []string) error {
	catalog, err := content.Load()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHP\tDAMAGE\tWEAPON\tSPEED\tXP\tGOLD")
	for _, e := range catalog.Enemies {
		name := e.Name
		if e.Boss {
			name += " (boss)"
		}
		gold := "-"
		if e.Gold != nil {
			gold = fmt.Sprintf("%d-%d", e.Gold.Min, e.Gold.Max)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%d\t%d\t%s\n",
			name, e.HP, e.Damage, e.Weapon, e.Speed, e.XP, gold)
	}
	return w.Flush()
}
