// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Adapt returns a source producing sampleRate and channels from src. It
// returns src itself when nothing has to change.
//
// The chain mixes before resampling when channels are dropped, and after
// resampling when channels are added, so the resampler always works on the
// smaller channel count.
func Adapt(src Source, sampleRate, channels int) (Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	out := src
	if channels < out.Channels() {
		mixed, err := NewChannelMixer(out, channels)
		if err != nil {
			return nil, err
		}
		out = mixed
	}

	if out.SampleRate() != sampleRate {
		resampled, err := NewResampler(out, sampleRate)
		if err != nil {
			return nil, err
		}
		out = resampled
	}

	if channels > out.Channels() {
		mixed, err := NewChannelMixer(out, channels)
		if err != nil {
			return nil, err
		}
		out = mixed
	}

	return out, nil
}
