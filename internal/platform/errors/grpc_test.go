package errors

import (
	stderrors "errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleErrorLocalizesDomainErrors(t *testing.T) {
	err := WithMetadata(CodeStageOutOfSequence, "internal detail", map[string]string{
		"Current": "created",
		"Target":  "heatsScored",
	})

	grpcErr := HandleError(err, "")
	if status.Code(grpcErr) != codes.FailedPrecondition {
		t.Fatalf("code = %v, want %v", status.Code(grpcErr), codes.FailedPrecondition)
	}
	if got := LocalizedMessage(grpcErr); got != "Stage heatsScored cannot run after created" {
		t.Fatalf("localized = %q", got)
	}
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	grpcErr := HandleError(stderrors.New("disk on fire"), "en-US")
	if status.Code(grpcErr) != codes.Internal {
		t.Fatalf("code = %v, want %v", status.Code(grpcErr), codes.Internal)
	}
	if got := LocalizedMessage(grpcErr); got != "an unexpected error occurred" {
		t.Fatalf("message = %q", got)
	}
	if HandleError(nil, "en-US") != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestFromGRPCStatusRestoresCode(t *testing.T) {
	grpcErr := HandleError(WithMetadata(CodeEventLocked, "locked", map[string]string{"Stage": "verified"}), "fr-FR")

	restored := FromGRPCStatus(grpcErr)
	if !HasCode(restored, CodeEventLocked) {
		t.Fatalf("restored = %v, want EVENT_LOCKED", restored)
	}
	var appErr *Error
	if !stderrors.As(restored, &appErr) || appErr.Metadata["Stage"] != "verified" {
		t.Fatalf("metadata not restored: %+v", appErr)
	}

	plain := status.Error(codes.Unavailable, "down")
	if FromGRPCStatus(plain) != plain {
		t.Fatal("expected plain status errors to pass through")
	}
}
