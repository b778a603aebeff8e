package protocol

import (
	"errors"

	herrors "github.com/vango-dev/hydra/internal/errors"
)

// ErrorCode classifies an error frame.
type ErrorCode uint16

const (
	CodeUnknown        ErrorCode = 0x0000
	CodeInvalidFrame   ErrorCode = 0x0001
	CodeInvalidEvent   ErrorCode = 0x0002
	CodeNodeNotFound   ErrorCode = 0x0003
	CodeDispatchFailed ErrorCode = 0x0004 // a handler, bind or flush failed
	CodeInternal       ErrorCode = 0x0100
)

var codeNames = map[ErrorCode]string{
	CodeInvalidFrame:   "InvalidFrame",
	CodeInvalidEvent:   "InvalidEvent",
	CodeNodeNotFound:   "NodeNotFound",
	CodeDispatchFailed: "DispatchFailed",
	CodeInternal:       "Internal",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ErrorMessage is the payload of a FrameError.
type ErrorMessage struct {
	Code ErrorCode
	// Ref is the engine error code (E110, E120, ...) behind the failure.
	Ref     string
	Message string
	// Fatal tells the client the session is over.
	Fatal bool
}

// NewError builds a non-fatal error message from err. A HydraError
// anywhere in the chain supplies Ref.
func NewError(code ErrorCode, err error) *ErrorMessage {
	em := &ErrorMessage{Code: code, Message: err.Error()}
	var he *herrors.HydraError
	if errors.As(err, &he) {
		em.Ref = he.Code
	}
	return em
}

// NewFatalError is NewError for errors that end the session.
func NewFatalError(code ErrorCode, err error) *ErrorMessage {
	em := NewError(code, err)
	em.Fatal = true
	return em
}

// EncodeErrorMessage writes code, ref, message and the fatal flag.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Ref)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage reads what EncodeErrorMessage wrote.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	var (
		em   ErrorMessage
		code uint16
		err  error
	)
	if code, err = d.ReadUint16(); err != nil {
		return nil, err
	}
	em.Code = ErrorCode(code)
	if em.Ref, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return &em, nil
}

func (em *ErrorMessage) Error() string {
	s := em.Code.String()
	if em.Ref != "" {
		s += " " + em.Ref
	}
	s += ": " + em.Message
	if em.Fatal {
		return "fatal: " + s
	}
	return s
}
