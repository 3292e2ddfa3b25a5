package errors

import (
	stderrors "errors"
	"strings"

	"github.com/louisbranch/trackmeet/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// HandleError converts domain errors to gRPC status for client responses.
// The user-facing message is rendered from the locale's catalog; errors
// without a domain code become a generic Internal status.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}

	var appErr *Error
	if stderrors.As(err, &appErr) {
		messages := i18n.For(locale)
		return appErr.Status(messages.Locale(), messages.Render(string(appErr.Code), appErr.Metadata)).Err()
	}
	return status.Error(codes.Internal, "an unexpected error occurred")
}

// FromGRPCStatus rebuilds the domain error carried by a gRPC status error.
// The returned error keeps the status error as its cause. Errors without an
// ErrorInfo detail from this domain are returned unchanged.
func FromGRPCStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return err
	}
	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != Domain {
			continue
		}
		return Wrap(Code(info.GetReason()), st.Message(), info.GetMetadata(), err)
	}
	return err
}

// LocalizedMessage returns the user-facing message attached to a gRPC status
// error, or the status message when none is attached.
func LocalizedMessage(err error) string {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	for _, detail := range st.Details() {
		if localized, ok := detail.(*errdetails.LocalizedMessage); ok && localized.GetMessage() != "" {
			return localized.GetMessage()
		}
	}
	return st.Message()
}
