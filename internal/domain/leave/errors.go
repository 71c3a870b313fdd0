package leave

import "errors"

var (
	ErrQuotaNotFound  = errors.New("leave quota not found")
	ErrQuotaExhausted = errors.New("leave quota exhausted")
)
