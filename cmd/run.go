package cmd

import (
	"fmt"

	"github.com/pentatonicway/ear-trainer/internal/app"
	"github.com/spf13/cobra"
)

// runApp opens the store and launches the TUI.
func runApp(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Store:   st,
		Version: version,
	})
}
