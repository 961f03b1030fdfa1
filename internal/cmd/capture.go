package cmd

import (
	"fmt"

	"github.com/openhwlab/scopedump/internal/config"
	"github.com/openhwlab/scopedump/internal/logging"
	"github.com/openhwlab/scopedump/internal/replay"
	"github.com/openhwlab/scopedump/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Run a capture session and dump the result as a waveform file",
	Long: `Run one full capture session: arm every tap listed in the manifest,
record until the session is stopped, then drain the capture buffers and
write a VCD waveform file.

The device is reached through a replay transport: a text file holding the
register words the device would return, one per line. Start and stop
bounds are only programmed into the device when the flags are given.`,
	RunE: runCapture,
}

var (
	captureReplay string
	captureStart  uint64
	captureStop   uint64
)

func init() {
	captureCmd.Flags().StringVarP(&captureReplay, "replay", "r", "", "replay file with device register responses (required)")
	captureCmd.Flags().StringP("manifest", "m", "", "tap manifest JSON file")
	captureCmd.Flags().StringP("out", "o", "", "output waveform file")
	captureCmd.Flags().Uint32("depth", 0, "capture depth to program into every tap (0 = device default)")
	captureCmd.Flags().Int("timeout", 0, "session auto-stop timeout in seconds")
	captureCmd.Flags().Uint64Var(&captureStart, "start", 0, "capture start time in device cycles")
	captureCmd.Flags().Uint64Var(&captureStop, "stop", 0, "capture stop time in device cycles")
	_ = captureCmd.MarkFlagRequired("replay")

	_ = viper.BindPFlag("manifest_path", captureCmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("out", captureCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("depth", captureCmd.Flags().Lookup("depth"))
	_ = viper.BindPFlag("timeout", captureCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer log.Close()

	transport, err := replay.Open(captureReplay)
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}

	sess, err := session.New(transport, cfg, log)
	if err != nil {
		return err
	}

	startTime, stopTime := session.TimeUnset, session.TimeUnset
	if cmd.Flags().Changed("start") {
		startTime = captureStart
	}
	if cmd.Flags().Changed("stop") {
		stopTime = captureStop
	}

	if err := sess.Start(startTime, stopTime); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	if err := sess.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(sess.Summary()))
	return nil
}
