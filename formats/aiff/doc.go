// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files with
// integer PCM at 8, 16, 24 or 32 bits and any channel count. AIFF-C
// (compressed) files are not supported.
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := audio.NewPlanar(source.Channels(), 4096)
//	n, err := source.ReadFrames(buf)
//
// Big-endian samples are normalized to float32 in [-1.0, 1.0]. Readers that
// cannot seek are buffered into memory first.
//
// # Error Handling
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: the sample size is not 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: missing channel count or sample rate
package aiff
