package command

import (
	"errors"

	"github.com/goliatone/go-homebrief/pkg/types"
)

var (
	// ErrUserIDRequired occurs when a command omits the user.
	ErrUserIDRequired = types.ErrUserIDRequired
	// ErrBuildingIDRequired occurs when a command omits the building.
	ErrBuildingIDRequired = types.ErrBuildingIDRequired
	// ErrEventTypeRequired indicates an engagement record is missing its event type.
	ErrEventTypeRequired = errors.New("go-homebrief: engagement event type required")
	// ErrGeneratorRequired indicates the refresh command lacks a brief generator.
	ErrGeneratorRequired = types.ErrMissingAggregator
)
