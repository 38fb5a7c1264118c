// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG-1 and
// MPEG-2 Layer III streams.
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("audio.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := audio.NewPlanar(2, 4096)
//	n, err := source.ReadFrames(buf)
//
// # Output Format
//
// go-mp3 always produces stereo, so the source has two channels even for
// mono files. Use audio.NewChannelMixer or audio.Adapt to fold it down:
//
//	mono, err := audio.Adapt(source, 16000, 1)
//
// MP3 writing is not supported.
package mp3
