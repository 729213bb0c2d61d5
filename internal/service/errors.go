package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/registry"
	"github.com/mmynk/billscan/internal/session"
	"github.com/mmynk/billscan/internal/storage"
)

var (
	errMissingSession = errors.New("missing Billscan-Session header")
	errNoRecognizer   = errors.New("OCR is not configured on this server")
)

// toConnectError maps domain errors onto Connect status codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrEntryNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, registry.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrClaimNotFound):
		return connect.NewError(connect.CodeNotFound, err)

	case errors.Is(err, session.ErrNoReceipt),
		errors.Is(err, calculator.ErrInvalidEntry),
		errors.Is(err, calculator.ErrDegenerateSplit):
		return connect.NewError(connect.CodeFailedPrecondition, err)

	case errors.Is(err, registry.ErrDuplicateParticipant),
		errors.Is(err, registry.ErrEmptyName),
		errors.Is(err, calculator.ErrNegativeWeight),
		errors.Is(err, calculator.ErrNegativeAmount),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrUnknownTipMode),
		errors.Is(err, calculator.ErrUnknownClaimant),
		errors.Is(err, ocr.ErrEmptyImage),
		errors.Is(err, ocr.ErrInvalidCrop):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
