package cmd

import (
	"fmt"
	"os"

	"github.com/pentatonicway/ear-trainer/internal/backup"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <archive.json>",
	Short: "Restore practice data from a JSON archive",
	Long:  "Restore practice data from an archive created by 'pentatone export'. Existing data is replaced; an invalid archive leaves it untouched.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := backup.Import(cmd.Context(), st, f); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Println("Practice data restored.")
		return nil
	},
}
