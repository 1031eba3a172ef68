package report

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrCreateDir    = errors.New("create report directory failed")
	ErrNoData       = errors.New("no data to visualize")
	ErrRenderReport = errors.New("render report failed")
)
