// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Stage workflow errors
	CodeStageOutOfSequence Code = "STAGE_OUT_OF_SEQUENCE"
	CodeStageUnknown       Code = "STAGE_UNKNOWN"
	CodeEventLocked        Code = "EVENT_LOCKED"

	// Roster and performance errors
	CodeEmptyRoster          Code = "EMPTY_ROSTER"
	CodeMalformedPerformance Code = "MALFORMED_PERFORMANCE"
	CodeInvalidInput         Code = "INVALID_INPUT"

	// Storage errors
	CodeNotFound           Code = "NOT_FOUND"
	CodeEventAlreadyExists Code = "EVENT_ALREADY_EXISTS"
	CodeVersionConflict    Code = "VERSION_CONFLICT"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeStageUnknown,
		CodeMalformedPerformance,
		CodeInvalidInput:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeStageOutOfSequence,
		CodeEventLocked,
		CodeEmptyRoster:
		return codes.FailedPrecondition

	case CodeNotFound:
		return codes.NotFound

	case CodeEventAlreadyExists:
		return codes.AlreadyExists

	case CodeVersionConflict:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
