// SPDX-License-Identifier: EPL-2.0

package audio

// NewPlanar allocates channels slices of frames samples each.
func NewPlanar(channels, frames int) [][]float32 {
	backing := make([]float32, channels*frames)
	p := make([][]float32, channels)
	for c := range p {
		p[c] = backing[c*frames : (c+1)*frames : (c+1)*frames]
	}
	return p
}

// FrameCount returns the common length of the planes in p.
func FrameCount(p [][]float32) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := len(p[0])
	for _, plane := range p[1:] {
		if len(plane) != n {
			return 0, ErrUnevenPlanes
		}
	}
	return n, nil
}

// Deinterleave splits interleaved src ([L0, R0, L1, R1, ...]) into the
// planes of dst and returns the number of frames written. A trailing
// partial frame in src is ignored.
func Deinterleave(dst [][]float32, src []float32) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}
	frames := len(src) / channels
	for _, plane := range dst {
		frames = min(frames, len(plane))
	}

	switch channels {
	case 1:
		copy(dst[0][:frames], src)
	case 2:
		l, r := dst[0][:frames], dst[1][:frames]
		for f := range frames {
			l[f] = src[2*f]
			r[f] = src[2*f+1]
		}
	default:
		for f := range frames {
			base := f * channels
			for c := range channels {
				dst[c][f] = src[base+c]
			}
		}
	}
	return frames
}

// Interleave writes the first frames frames of src into dst as
// [L0, R0, L1, R1, ...] and returns the number of frames written.
func Interleave(dst []float32, src [][]float32, frames int) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}
	frames = min(frames, len(dst)/channels)
	for _, plane := range src {
		frames = min(frames, len(plane))
	}

	for f := range frames {
		base := f * channels
		for c := range channels {
			dst[base+c] = src[c][f]
		}
	}
	return frames
}
