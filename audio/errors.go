// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrChannelCountMismatch = errors.New("dst channel count does not match source")
	ErrUnevenPlanes         = errors.New("planes must have equal length")
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidChannelCount  = errors.New("channel count must be positive")
)
