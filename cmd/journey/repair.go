package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-journey/internal/logging"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/repair"
)

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Find unreadable saves and journal entries in Redis",
		Long: `Scan the Redis store for save slots and journal entries that can no
longer be loaded. Pass --delete to remove them.`,
		RunE: runRepair,
	}

	cmd.Flags().Bool("delete", false, "delete the records that were found")
	return cmd
}

func runRepair(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.Setup("rpg-journey", version, cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr()))

	del, err := cmd.Flags().GetBool("delete")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	scanner, err := repair.NewScanner(&repair.Config{Client: client})
	if err != nil {
		return err
	}

	out, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Checked %d keys, found %d problems\n", out.Checked, len(out.Problems))
	if len(out.Problems) == 0 {
		return nil
	}

	keys := make([]string, 0, len(out.Problems))
	for _, p := range out.Problems {
		fmt.Fprintf(w, "  %s: %s\n", p.Key, p.Reason)
		keys = append(keys, p.Key)
	}
	if !del {
		fmt.Fprintln(w, "Run with --delete to remove them.")
		return nil
	}

	deleted, err := scanner.Delete(ctx, &repair.DeleteInput{Keys: keys})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted %d keys\n", deleted.Deleted)
	return nil
}
