package errors

import (
	"errors"
	"fmt"
)

const (
	CodeMissingCopy            = "MISSING_COPY"
	CodeUnsupportedInstruction = "UNSUPPORTED_INSTRUCTION"
	CodeInvalidInstruction     = "INVALID_INSTRUCTION"
	CodeImageNotFound          = "IMAGE_NOT_FOUND"
	CodeContainerExists        = "CONTAINER_EXISTS"
)

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// Error Creators ///////////////////////////////

// The build file has no usable COPY instruction
func MissingCopy() error {
	return &codedError{
		code: CodeMissingCopy,
		msg:  "The build file must contain at least one valid COPY instruction",
	}
}

// The instruction is not one hpmq knows how to build
func UnsupportedInstruction(line int, original string) error {
	return &codedError{
		code: CodeUnsupportedInstruction,
		msg:  fmt.Sprintf("line %d: unsupported instruction: %s", line, original),
	}
}

// The instruction is supported but its arguments are not usable
func InvalidInstruction(line int, original string, reason string) error {
	return &codedError{
		code: CodeInvalidInstruction,
		msg:  fmt.Sprintf("line %d: %s: %s", line, reason, original),
	}
}

// The image is not in the local store
func ImageNotFound(ref string) error {
	return &codedError{
		code: CodeImageNotFound,
		msg:  fmt.Sprintf("Image %s was not found in the local store. Build or pull it first", ref),
	}
}

// The container directory has already been initialized
func ContainerExists(dir string) error {
	return &codedError{
		code: CodeContainerExists,
		msg:  fmt.Sprintf("Container already initialized at %s. Pass --force true to replace it", dir),
	}
}

// Helpers //////////////////////////////////////

func IsMissingCopy(err error) bool {
	return Code(err) == CodeMissingCopy
}

func IsUnsupportedInstruction(err error) bool {
	return Code(err) == CodeUnsupportedInstruction
}

func IsInvalidInstruction(err error) bool {
	return Code(err) == CodeInvalidInstruction
}

func IsImageNotFound(err error) bool {
	return Code(err) == CodeImageNotFound
}

func IsContainerExists(err error) bool {
	return Code(err) == CodeContainerExists
}

// Return the error code, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}

	return ""
}
