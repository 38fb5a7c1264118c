// SPDX-License-Identifier: EPL-2.0

// Package audio provides planar audio streams and the processors that
// convert between stream formats.
//
// This package contains the building blocks around the frame queue:
//   - Source and Sink interfaces for planar audio input and output
//   - Resampler for sample rate conversion
//   - ChannelMixer for channel count conversion
//   - Adapt, which chains both to reach a target format
//   - Format registry for decoder registration
//
// # Planar Frames
//
// Audio moves through this package as one []float32 per channel, all of
// equal length. A frame is one sample from every channel at the same
// instant:
//
//	buf := audio.NewPlanar(2, 4096) // stereo, 4096 frames
//	n, err := src.ReadFrames(buf)   // buf[0][:n] is left, buf[1][:n] is right
//
// Deinterleave and Interleave convert from and to the [L0, R0, L1, R1, ...]
// layout that most codecs use.
//
// # Resampling
//
// The Resampler changes the sample rate using cubic interpolation and
// applies a light low-pass filter when downsampling:
//
//	resampler, err := audio.NewResampler(source, 16000)
//
// # Channel Mixing
//
// The ChannelMixer folds channels by averaging or expands them by
// duplication:
//
//	mono, err := audio.NewChannelMixer(stereo, 1)
//
// Adapt picks the cheapest order for both conversions:
//
//	out, err := audio.Adapt(source, 48000, 2)
//
// # Format Registry
//
// The registry maps format keys to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.ForPath("song.WAV")
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0], with 0.0 as silence.
//
// # Error Handling
//
// ReadFrames returns io.EOF when the stream is exhausted, possibly together
// with a final batch of frames:
//
//	for {
//	    n, err := source.ReadFrames(buf)
//	    // Process n frames from buf
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
