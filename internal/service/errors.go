package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// ErrorKindHeader carries the validation kind (UNASSIGNED_ITEM,
// DEGENERATE_WEIGHTS, MALFORMED_INPUT) on InvalidArgument errors.
const ErrorKindHeader = "Receiptsplit-Error-Kind"

// toConnectError maps domain errors onto Connect codes: validation errors
// become InvalidArgument, missing records NotFound, anything else Internal.
func toConnectError(err error) error {
	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		cerr := connect.NewError(connect.CodeInvalidArgument, err)
		cerr.Meta().Set(ErrorKindHeader, string(verr.Kind))
		return cerr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
