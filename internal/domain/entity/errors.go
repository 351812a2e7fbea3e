package entity

import "errors"

// ErrInvalidSport indicates that the requested sport is not one of the supported toggles.
var ErrInvalidSport = errors.New("invalid sport: must be boxing or mma")
