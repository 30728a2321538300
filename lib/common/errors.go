package common

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess            RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                     // 1: Operation failed due to an internal error.
	RetCInvalidArgument                   // 2: A required input was nil, empty or otherwise unusable.
	RetCInvalidType                       // 3: Unknown type name or out-of-range type tag.
	RetCParseError                        // 4: A string could not be converted to the requested type.
	RetCRangeError                        // 5: A numeric string does not fit the target width.
	RetCDuplicateKey                      // 6: Insert collided with an existing key.
	RetCNotFound                          // 7: The key does not exist.
	RetCIndexOutOfRange                   // 8: Positional access beyond the store size.
	RetCMalformedLine                     // 9: A persisted record violates the file format.
	RetCIoError                           // 10: Opening, reading, writing or renaming a file failed.
	RetCInvalidStorageKind                // 11: Unknown storage backend selector.
	RetCUnsupported                       // 12: Operation is not supported by the underlying backend.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidArgument:
		return "InvalidArgument"
	case RetCInvalidType:
		return "InvalidType"
	case RetCParseError:
		return "ParseError"
	case RetCRangeError:
		return "RangeError"
	case RetCDuplicateKey:
		return "DuplicateKey"
	case RetCNotFound:
		return "NotFound"
	case RetCIndexOutOfRange:
		return "IndexOutOfRange"
	case RetCMalformedLine:
		return "MalformedLine"
	case RetCIoError:
		return "IoError"
	case RetCInvalidStorageKind:
		return "InvalidStorageKind"
	case RetCUnsupported:
		return "UnsupportedOperation"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps a return code, a message and an optional cause.
// Two errors match with errors.Is when their codes are equal, so the
// sentinel values below can be used to test for a class of failure.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The underlying cause (may be nil)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg == "" && e.Err == nil {
		return fmt.Sprintf("fKV error (code %s)", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("fKV error (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("fKV error (code %s): %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error with the given code and a formatted message.
func NewError(code RetCode, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new Error with the given code that wraps err.
func WrapError(code RetCode, err error, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

// CodeOf returns the code of the first *Error in err's chain,
// RetCSuccess for nil and RetCInternalError for foreign errors.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCInternalError
}

// Sentinels for errors.Is
var (
	ErrInternal           = &Error{Code: RetCInternalError}
	ErrInvalidArgument    = &Error{Code: RetCInvalidArgument}
	ErrInvalidType        = &Error{Code: RetCInvalidType}
	ErrParse              = &Error{Code: RetCParseError}
	ErrRange              = &Error{Code: RetCRangeError}
	ErrDuplicateKey       = &Error{Code: RetCDuplicateKey}
	ErrNotFound           = &Error{Code: RetCNotFound}
	ErrIndexOutOfRange    = &Error{Code: RetCIndexOutOfRange}
	ErrMalformedLine      = &Error{Code: RetCMalformedLine}
	ErrIo                 = &Error{Code: RetCIoError}
	ErrInvalidStorageKind = &Error{Code: RetCInvalidStorageKind}
	ErrUnsupported        = &Error{Code: RetCUnsupported}
)
