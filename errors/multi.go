package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no non-nil error is given, nil is returned. A single non-nil error is
// returned as it is.
func Append(errs ...error) error {
	var all []error
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			all = append(all, m.errs...)
			continue
		}
		all = append(all, e)
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return &multiErr{errs: all}
	}
}

// multiErr groups several errors. It reports the ABCI code of the first
// error, consistent with a fail-fast approach.
type multiErr struct {
	errs []error
}

var _ unpacker = (*multiErr)(nil)

func (e *multiErr) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(e.errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all grouped errors.
func (e *multiErr) Unpack() []error {
	return e.errs
}

// ABCICode returns the code of the first error.
func (e *multiErr) ABCICode() uint32 {
	return abciCode(e.errs[0])
}
