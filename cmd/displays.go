package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srtcast/srtcast/internal/display"
	"github.com/srtcast/srtcast/internal/logging"
)

// CreateDisplaysCmd creates the displays command: list connected
// displays and the bounding box covering all of them.
func CreateDisplaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List connected displays",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			displays, err := display.Enumerate(cmd.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, "display query failed:", err)
				os.Exit(1)
			}

			for _, d := range displays {
				marker := " "
				if d.Primary {
					marker = "*"
				}
				fmt.Printf("%s %d: %s %s\n", marker, d.Index, d.Output, d.Rect)
			}
			if len(displays) > 1 {
				fmt.Printf("  all: %s\n", display.AllScreens(displays))
			}
		},
	}
}
