// Command audiostego hides and recovers payload bits inside uncompressed PCM
// WAV audio files using one of several signal-domain hiding methods (LSB
// substitution, phase coding, tone insertion, echo hiding).
//
// Usage:
//
//	audiostego embed -sf out.wav -cf cover.wav -m lsb -mf secret.bin
//	audiostego extract -sf out.wav -m lsb -mf recovered.bin
//	audiostego info cover.wav
//
// Configuration is stored in ~/.audiostego/config.yaml; see
// 'audiostego config' for managing per-method parameter defaults.
package main

import (
	"fmt"
	"os"

	"github.com/gostego/audiostego/cmd/audiostego/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
