package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownDiscipline = errors.New("unknown rating discipline")
)
