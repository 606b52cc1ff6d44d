package eq

import "errors"

var (
	ErrTargetTooSmall     = errors.New("resample target must have at least 2 columns")
	ErrSourceTooSmall     = errors.New("resample source must have at least 2 values")
	ErrTooFewBands        = errors.New("band set needs at least 2 edges")
	ErrBandsNotIncreasing = errors.New("band edges must be strictly increasing")
	ErrInvalidGrid        = errors.New("grid needs at least 1 row and 2 columns")
)
