package cerr

import (
	"fmt"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

// F is a set of structured fields attached to an error.
type F = map[string]any

// ErrorBuilder accumulates context (fields, a cause, a domain mark) and
// produces an error with Error.
type ErrorBuilder struct {
	fields  F
	wrapped error
	mark    error
}

func Field(key string, value any) ErrorBuilder {
	return ErrorBuilder{}.Field(key, value)
}

func Fields(fields F) ErrorBuilder {
	return ErrorBuilder{}.Fields(fields)
}

func Wrap(err error) ErrorBuilder {
	return ErrorBuilder{}.Wrap(err)
}

func Mark(mark error) ErrorBuilder {
	return ErrorBuilder{}.Mark(mark)
}

func Error(msg string) error {
	return ErrorBuilder{}.build(2, msg)
}

func (e ErrorBuilder) Field(key string, value any) ErrorBuilder {
	return e.Fields(F{key: value})
}

func (e ErrorBuilder) Fields(fields F) ErrorBuilder {
	merged := make(F, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}

	for k, v := range fields {
		merged[k] = v
	}

	e.fields = merged
	return e
}

func (e ErrorBuilder) Wrap(err error) ErrorBuilder {
	e.wrapped = err
	return e
}

func (e ErrorBuilder) Mark(mark error) ErrorBuilder {
	e.mark = mark
	return e
}

func (e ErrorBuilder) Error(msg string) error {
	return e.build(2, msg)
}

func (e ErrorBuilder) build(depth int, msg string) error {
	var err error
	if e.wrapped != nil {
		err = errors.WrapWithDepth(depth, e.wrapped, msg)
	} else {
		err = errors.NewWithDepth(depth, msg)
	}

	if e.mark != nil {
		err = errors.Mark(err, e.mark)
	}

	if len(e.fields) > 0 {
		err = &fieldsError{cause: err, fields: e.fields}
	}

	return err
}

type fieldsError struct {
	cause  error
	fields F
}

func (f *fieldsError) Error() string {
	return f.cause.Error()
}

func (f *fieldsError) Cause() error {
	return f.cause
}

func (f *fieldsError) Unwrap() error {
	return f.cause
}

func (f *fieldsError) Format(s fmt.State, verb rune) {
	errors.FormatError(f, s, verb)
}

// FieldsOf collects every field attached anywhere along the error chain.
// Fields closer to the root cause win over outer ones with the same key.
func FieldsOf(err error) F {
	collected := F{}

	for current := err; current != nil; current = errors.UnwrapOnce(current) {
		withFields, ok := current.(*fieldsError)
		if !ok {
			continue
		}

		for k, v := range withFields.fields {
			collected[k] = v
		}
	}

	return collected
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(log.Fields(FieldsOf(err))).
		WithError(err).
		Error("Error occurred")
}
