package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrClaimNotFound means the participant holds no claim on the entry.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrNoClaim is returned by ShareFor; it matches ErrClaimNotFound.
	ErrNoClaim = fmt.Errorf("%w: no claim on entry", ErrClaimNotFound)
	// ErrDegenerateSplit means the claim weights on an entry sum to zero.
	ErrDegenerateSplit = errors.New("claim weights sum to zero")
	ErrNegativeWeight  = errors.New("weight must be a non-negative number")
	ErrNegativeAmount  = errors.New("amount must be a non-negative number")
	ErrInvalidEntry    = errors.New("entry is not a valid line item")
	ErrNoParticipants  = errors.New("must have at least one participant")
	ErrUnknownTipMode  = errors.New("unknown tip mode")
	// ErrUnknownClaimant means a custom weight names someone outside the
	// participant list.
	ErrUnknownClaimant = errors.New("weight given for a non-participant")
)
