package cmd

import (
	"fmt"
	"time"

	"github.com/pentatonicway/ear-trainer/internal/catalog"
	"github.com/pentatonicway/ear-trainer/internal/store"
	"github.com/pentatonicway/ear-trainer/internal/streak"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()

		phase, err := st.Settings().GetInt(ctx, store.KeyCurrentPhase, store.DefaultPhase)
		if err != nil {
			return err
		}
		dates, err := st.Sessions().AllDates(ctx)
		if err != nil {
			return err
		}
		stats, err := st.Stats().All(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Phase:    %d\n", phase)
		fmt.Printf("Sessions: %d\n", len(dates))
		fmt.Printf("Streak:   %d day(s)\n", streak.Days(dates, time.Now()))

		if len(stats) == 0 {
			fmt.Println("\nNo interval statistics yet.")
			return nil
		}

		fmt.Println("\nInterval accuracy:")
		for _, iv := range catalog.All() {
			for _, s := range stats {
				if s.IntervalID != iv.ID {
					continue
				}
				fmt.Printf("  %-18s %3d/%-3d  %.0f%%\n",
					iv.DisplayName, s.Correct, s.Total, s.Accuracy()*100)
			}
		}
		return nil
	},
}
