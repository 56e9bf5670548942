package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name to err, so that the validation errors of a
// message can be told apart. A nil err returns nil, which allows
// validation code to call it for every field unconditionally.
//
// Use Go naming for the field name, with dot notation for nested fields,
// for example Asset.Token.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{field: fieldName, desc: description, parent: err}
}

// AppendField adds the error of a field, if any, to the collected errors.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.field, e.parent)
}

func (e *fieldError) Cause() error  { return e.parent }
func (e *fieldError) Field() string { return e.field }

type fielder interface {
	Field() string
}

// FieldErrors collects every error reported for given field name, looking
// through wrapped and appended errors.
func FieldErrors(err error, fieldName string) []error {
	var found []error
	collectField(err, fieldName, &found)
	return found
}

func collectField(err error, fieldName string, found *[]error) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			*found = append(*found, err)
			return
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				collectField(e, fieldName, found)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
