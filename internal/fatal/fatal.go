// Package fatal defines the agent's exit-code taxonomy.
//
// Every unrecoverable condition in the agent is represented as a *Error
// carrying one of these codes. main() is the only place that turns a
// *Error into os.Exit — everything else returns it up the call stack like
// any other error, after running scoped-setting restorers.
package fatal

import "fmt"

// Code is one of the exit codes the peer uses to distinguish failure modes.
type Code int

const (
	Generic                 Code = 1
	InvalidCLI              Code = 2
	WeakVideoEncoder        Code = 3
	RepeatedEncoderErrors   Code = 4
	NoEncoder               Code = 10
	EncoderInit             Code = 11
	EncoderConfig           Code = 12
	VirtualDisplayCreate    Code = 13
	InputSurfaceCreate      Code = 14
	ServiceNotFound         Code = 15
	SocketConnect           Code = 20
	SocketIO                Code = 21
	InvalidControlMessage   Code = 22
	NullPtr                 Code = 30
	ClassNotFound           Code = 31
	MethodNotFound          Code = 32
	CtorNotFound            Code = 33
	FieldNotFound           Code = 34
	RuntimeException        Code = 35
)

func (c Code) String() string {
	switch c {
	case Generic:
		return "generic"
	case InvalidCLI:
		return "invalid-cli"
	case WeakVideoEncoder:
		return "weak-video-encoder"
	case RepeatedEncoderErrors:
		return "repeated-encoder-errors"
	case NoEncoder:
		return "no-encoder"
	case EncoderInit:
		return "encoder-init"
	case EncoderConfig:
		return "encoder-config"
	case VirtualDisplayCreate:
		return "virtual-display-create"
	case InputSurfaceCreate:
		return "input-surface-create"
	case ServiceNotFound:
		return "service-not-found"
	case SocketConnect:
		return "socket-connect"
	case SocketIO:
		return "socket-io"
	case InvalidControlMessage:
		return "invalid-control-message"
	case NullPtr:
		return "null-ptr"
	case ClassNotFound:
		return "class-not-found"
	case MethodNotFound:
		return "method-not-found"
	case CtorNotFound:
		return "ctor-not-found"
	case FieldNotFound:
		return "field-not-found"
	case RuntimeException:
		return "runtime-exception"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is a fatal condition: the process must exit with Code after
// unwinding scoped settings.
type Error struct {
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap produces a *Error for code, wrapping cause for diagnostics.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause}
}

// New produces a *Error for code with a formatted message and no wrapped cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Cause: fmt.Errorf(format, args...)}
}

// As reports whether err is (or wraps) a *Error, returning it if so.
func As(err error) (*Error, bool) {
	var fe *Error
	for err != nil {
		if f, ok := err.(*Error); ok {
			return f, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return fe, false
}
