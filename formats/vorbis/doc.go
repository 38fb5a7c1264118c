// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis
// files with any channel count and sample rate.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := audio.NewPlanar(source.Channels(), 4096)
//	n, err := source.ReadFrames(buf)
//
// Vorbis packets decode to a varying number of frames, so ReadFrames keeps
// pulling packets until dst is full or the stream ends.
package vorbis
