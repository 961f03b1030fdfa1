package cmd

import (
	"fmt"

	"github.com/openhwlab/scopedump/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest>",
	Short: "Check a tap manifest without touching the device",
	Long: `Parse and validate a tap manifest JSON file: tap ids must be unique and
in range, every tap needs a module path and at least one signal, and each
tap's signal widths must sum to its declared width.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	signals := 0
	for _, tap := range m.Taps {
		signals += len(tap.Signals)
		fmt.Fprintf(out, "tap %d: %s (width %d, %d signals)\n",
			tap.ID, tap.Path, tap.Width, len(tap.Signals))
	}
	fmt.Fprintf(out, "manifest OK: %d taps, %d signals\n", len(m.Taps), signals)
	return nil
}
