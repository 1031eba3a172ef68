package oura

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingToken   = errors.New("oura access token required")
	ErrRequestFailed  = errors.New("api request failed")
	ErrNotFound       = errors.New("endpoint not found")
	ErrDecodeResponse = errors.New("decode api response failed")
)
