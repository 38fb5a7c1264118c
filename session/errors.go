// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	ErrInvalidConfig  = errors.New("session: invalid config")
	ErrFormatMismatch = errors.New("session: source format does not match config")
	ErrAlreadyRun     = errors.New("session: already run")
)
