package engine

import (
	"errors"
	"fmt"

	"contagio/internal/domain"
)

var ErrInvalidStatus = errors.New("invalid mission status")

func errInvalidStatus(s domain.MissionStatus) error {
	return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
