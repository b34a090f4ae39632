package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gostego/audiostego/pkg/cli"
	"github.com/gostego/audiostego/pkg/pcmfile"
	"github.com/gostego/audiostego/pkg/pipeline"
	"github.com/gostego/audiostego/pkg/stego"
)

var (
	extractStegoFile string
	extractMethod    string
	extractMsgFile   string
	extractKey       string
	extractLimit     string
	extractHamming   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover a payload from a stego file",
	Long: `Recover a payload bit stream from a stego PCM WAV file, writing it
to a message file or stdout.

Example:
  audiostego extract -sf out.wav -m lsb -mf recovered.bin -k lsbs=2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractStegoFile == "" {
			return stego.InvalidArgument("-sf is required")
		}
		if extractMethod == "" {
			return stego.InvalidArgument("-m is required")
		}

		start := time.Now()

		limitBits, err := parseLimit(extractLimit)
		if err != nil {
			return err
		}
		cliParams, err := parseKeyParams(extractKey)
		if err != nil {
			return err
		}

		stegoFile, err := pcmfile.Open(extractStegoFile)
		if err != nil {
			return err
		}
		defer stegoFile.Close()

		cli.PrintVerbose(verbose, "extracting with method %s from %s", extractMethod, extractStegoFile)

		merged := getConfig().Merge(extractMethod, cliParams)
		reportStoredDefaults(extractMethod, cliParams, merged)
		params := stego.NewParams(merged)
		params.Set("samplerate", strconv.Itoa(stegoFile.SampleRate()))
		params.Set("bit_depth", strconv.Itoa(stegoFile.BitDepth()))

		method, err := stego.Create(extractMethod, params)
		if err != nil {
			return err
		}

		out, closer, err := openPayloadOut(extractMsgFile, limitBits, extractHamming)
		if err != nil {
			return err
		}

		if err := pipeline.Extract(context.Background(), stegoFile, pipeline.ExtractOptions{
			Method: method,
			Out:    out,
			Policy: pipeline.FirstOnly,
		}); err != nil {
			closer.Close()
			return err
		}

		if err := closer.Close(); err != nil {
			return err
		}
		logger.Debug("extract complete", "method", extractMethod, "stego", extractStegoFile)
		cli.PrintSuccess("extracted payload from %s (%s)", extractStegoFile, cli.FormatDuration(int(time.Since(start).Milliseconds())))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractStegoFile, "sf", "", "stego input file (required)")
	extractCmd.Flags().StringVar(&extractMethod, "m", "", "hiding method name (required)")
	extractCmd.Flags().StringVar(&extractMsgFile, "mf", "", "message/payload output file (default: stdout)")
	extractCmd.Flags().StringVar(&extractKey, "k", "", "method parameters, k1=v1,k2=v2,...")
	extractCmd.Flags().StringVar(&extractLimit, "l", "", "payload limit, N bytes or Nb bits")
	extractCmd.Flags().BoolVar(&extractHamming, "e", false, "apply Hamming(7,4) error correction")
}
