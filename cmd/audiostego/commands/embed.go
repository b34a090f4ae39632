package commands

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gostego/audiostego/pkg/cli"
	"github.com/gostego/audiostego/pkg/diagnostics"
	"github.com/gostego/audiostego/pkg/pcmfile"
	"github.com/gostego/audiostego/pkg/pipeline"
	"github.com/gostego/audiostego/pkg/stego"
)

var (
	embedStegoFile string
	embedCoverFile string
	embedMethod    string
	embedMsgFile   string
	embedKey       string
	embedLimit     string
	embedHamming   bool
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed a payload into a cover file",
	Long: `Embed a payload bit stream into a cover PCM WAV file, writing the
result to a stego file.

Example:
  audiostego embed -sf out.wav -cf cover.wav -m lsb -mf secret.bin -k lsbs=2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if embedStegoFile == "" {
			return stego.InvalidArgument("-sf is required")
		}
		if embedCoverFile == "" {
			return stego.InvalidArgument("-cf is required")
		}
		if embedMethod == "" {
			return stego.InvalidArgument("-m is required")
		}

		start := time.Now()

		limitBits, err := parseLimit(embedLimit)
		if err != nil {
			return err
		}
		cliParams, err := parseKeyParams(embedKey)
		if err != nil {
			return err
		}

		cover, err := pcmfile.Open(embedCoverFile)
		if err != nil {
			return err
		}
		defer cover.Close()

		merged := getConfig().Merge(embedMethod, cliParams)
		reportStoredDefaults(embedMethod, cliParams, merged)
		params := stego.NewParams(merged)
		params.Set("samplerate", strconv.Itoa(cover.SampleRate()))
		params.Set("bit_depth", strconv.Itoa(cover.BitDepth()))

		method, err := stego.Create(embedMethod, params)
		if err != nil {
			return err
		}

		if requested, ok := requestedPayloadBits(embedMsgFile, limitBits); ok {
			if available := method.Capacity(cover.NumFrames()); requested > available {
				logger.Warn("payload exceeds cover capacity, truncating", "requested_bits", requested, "available_bits", available)
				cli.PrintWarning("payload (%d bits) exceeds cover capacity (%d bits), truncating", requested, available)
				limitBits = int(available)
			}
		}

		cli.PrintVerbose(verbose, "embedding with method %s into %s", embedMethod, embedStegoFile)

		in, closer, err := openPayloadIn(embedMsgFile, limitBits, embedHamming)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		stegoFile, err := pcmfile.Create(embedStegoFile, cover.SampleRate(), cover.Channels(), cover.BitDepth())
		if err != nil {
			return err
		}

		if err := pipeline.Embed(context.Background(), cover, stegoFile, pipeline.EmbedOptions{
			Method: method,
			In:     in,
			Policy: pipeline.FirstOnly,
		}); err != nil {
			stegoFile.Close()
			return err
		}

		if err := stegoFile.Close(); err != nil {
			return err
		}

		if n := stegoFile.ClippedSamples(); n > 0 {
			logger.Warn("samples clamped to the container's representable range", "count", n)
			cli.PrintWarning("%d sample(s) clamped to the container's representable range", n)
		}

		if snr, ok := measureSNR(embedCoverFile, embedStegoFile); ok {
			logger.Info("embed complete", "method", embedMethod, "cover", embedCoverFile, "stego", embedStegoFile, "snr_db", snr)
		} else {
			logger.Debug("embed complete", "method", embedMethod, "cover", embedCoverFile, "stego", embedStegoFile)
		}
		cli.PrintSuccess("embedded payload into %s (%s)", embedStegoFile, cli.FormatDuration(int(time.Since(start).Milliseconds())))
		return nil
	},
}

// requestedPayloadBits returns the number of payload bits that will be
// consumed before any Hamming expansion, and whether that number is known
// ahead of time. An explicit -l limit is always known; absent that, a
// message file's size is used, but a stdin payload has no knowable length
// until it is drained, so ok is false.
func requestedPayloadBits(msgfile string, limitBits int) (int64, bool) {
	if limitBits >= 0 {
		return int64(limitBits), true
	}
	if msgfile == "" {
		return 0, false
	}
	fi, err := os.Stat(msgfile)
	if err != nil {
		return 0, false
	}
	return fi.Size() * 8, true
}

// measureSNR re-reads the cover and stego files block by block and reports
// the resulting signal-to-noise ratio, for diagnostic logging only; any
// failure to reopen either file is silently non-fatal.
func measureSNR(coverPath, stegoPath string) (float64, bool) {
	cover, err := pcmfile.Open(coverPath)
	if err != nil {
		return 0, false
	}
	defer cover.Close()
	out, err := pcmfile.Open(stegoPath)
	if err != nil {
		return 0, false
	}
	defer out.Close()

	const blockFrames = 4096
	channels := cover.Channels()
	coverBuf := make([]float64, blockFrames*channels)
	outBuf := make([]float64, blockFrames*channels)
	var meter diagnostics.SNRMeter

	for {
		cn, err := cover.ReadFloat(coverBuf)
		if err != nil {
			return 0, false
		}
		on, err := out.ReadFloat(outBuf)
		if err != nil {
			return 0, false
		}
		n := cn
		if on < n {
			n = on
		}
		if n == 0 {
			break
		}
		meter.Add(coverBuf[:n], outBuf[:n])
		if cn < blockFrames*channels {
			break
		}
	}
	if meter.Samples() == 0 {
		return 0, false
	}
	return meter.SNR(), true
}

func init() {
	embedCmd.Flags().StringVar(&embedStegoFile, "sf", "", "stego output file (required)")
	embedCmd.Flags().StringVar(&embedCoverFile, "cf", "", "cover input file (required)")
	embedCmd.Flags().StringVar(&embedMethod, "m", "", "hiding method name (required)")
	embedCmd.Flags().StringVar(&embedMsgFile, "mf", "", "message/payload file (default: stdin)")
	embedCmd.Flags().StringVar(&embedKey, "k", "", "method parameters, k1=v1,k2=v2,...")
	embedCmd.Flags().StringVar(&embedLimit, "l", "", "payload limit, N bytes or Nb bits")
	embedCmd.Flags().BoolVar(&embedHamming, "e", false, "apply Hamming(7,4) error correction")
}
