package csvstore

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrCreateDir    = errors.New("create data directory failed")
	ErrOpenDataset  = errors.New("open dataset failed")
	ErrReadDataset  = errors.New("read dataset failed")
	ErrWriteDataset = errors.New("write dataset failed")
)
