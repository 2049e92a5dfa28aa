package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/finchat/internal/ledger"
	"github.com/mmynk/finchat/internal/middleware"
	"github.com/mmynk/finchat/internal/orchestrator"
	"github.com/mmynk/finchat/internal/storage"
	"github.com/mmynk/finchat/internal/workflow"
)

var (
	errUserRequired = errors.New("user_id is required without a session")
	errOtherUser    = errors.New("user_id does not match the session")
)

// resolveUserID picks the user a call acts for. A session always wins; a
// request user_id is only honored when it matches the session or when
// there is no session at all.
func resolveUserID(ctx context.Context, requested string) (string, error) {
	session := middleware.GetUserID(ctx)
	switch {
	case session != "" && requested != "" && requested != session:
		return "", connect.NewError(connect.CodePermissionDenied, errOtherUser)
	case session != "":
		return session, nil
	case requested == "":
		return "", connect.NewError(connect.CodeUnauthenticated, errUserRequired)
	default:
		return requested, nil
	}
}

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	var (
		connectErr *connect.Error
		validation *ledger.ValidationError
	)
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.As(err, &validation), errors.Is(err, workflow.ErrInvalidStage):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, orchestrator.ErrUpstreamUnavailable), errors.Is(err, storage.ErrUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		slog.Error("Unexpected error", "error", err)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("internal error"))
	}
}
