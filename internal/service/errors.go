package service

import (
	"fmt"
	"strings"
)

type ErrUnauthorized struct {
	error
}

func NewErrUnauthorized() *ErrUnauthorized {
	return &ErrUnauthorized{fmt.Errorf("unauthorized")}
}

// ErrValidation names every field that failed validation.
type ErrValidation struct {
	error
	Fields []string
}

func NewErrValidation(fields ...string) *ErrValidation {
	return &ErrValidation{
		error:  fmt.Errorf("invalid fields: %s", strings.Join(fields, ", ")),
		Fields: fields,
	}
}

// ErrResourceNotFound is returned both for missing jobs and for jobs owned by someone else.
type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

type ErrUpstreamUnavailable struct {
	error
}

func NewErrUpstreamUnavailable(err error) *ErrUpstreamUnavailable {
	return &ErrUpstreamUnavailable{fmt.Errorf("job store unavailable: %w", err)}
}
