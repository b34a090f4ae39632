// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: raw PCM chunk/format handling, used to synthesize byte streams
//   - fixtures: synthetic cover signal generators (sine, white noise, int16)
package audio
