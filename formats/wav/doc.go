// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Both directions are built on github.com/go-audio/wav and support integer
// PCM at 8, 16, 24 and 32 bits with any channel count and sample rate.
//
// # Decoding WAV Files
//
// Use the Decoder to read WAV files:
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := audio.NewPlanar(source.Channels(), 4096)
//	n, err := source.ReadFrames(buf)
//
// Readers that do not implement io.Seeker are read into memory before
// parsing, since chunks may appear in any order.
//
// # Writing WAV Files
//
// The Encoder is an audio.Sink. It needs an io.WriteSeeker because the
// chunk sizes are patched in when it is closed:
//
//	file, _ := os.Create("output.wav")
//	enc, err := wav.NewEncoder(file, 48000, 16, 2)
//	err = enc.WriteFrames(frames)
//	err = enc.Close()
//
// Samples outside [-1, 1] are clipped.
//
// # Error Handling
//
//   - ErrNotWavFile: the input does not start with a RIFF/WAVE header
//   - ErrUnsupportedWavFormat: compressed or float data, or broken headers
//   - ErrUnsupportedBitDepth: a bit depth other than 8, 16, 24 or 32
package wav
