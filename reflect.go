package timelock

import (
	"reflect"

	"github.com/iov-one/timelock/errors"
)

// setMsg assigns msg to the destination pointer, if the types are
// compatible.
func setMsg(dest interface{}, msg Msg) error {
	dptr := reflect.ValueOf(dest)
	if dptr.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	dval := dptr.Elem()
	if !dval.CanSet() {
		return errors.Wrap(errors.ErrHuman, "cannot set destination")
	}

	mval := reflect.ValueOf(msg)
	if dval.Kind() == reflect.Ptr && dval.IsNil() {
		if !mval.Type().AssignableTo(dval.Type()) {
			return errors.Wrapf(errors.ErrType, "want %T, got %T", dval.Interface(), msg)
		}
		dval.Set(mval)
		return nil
	}

	if dval.Kind() == reflect.Struct && mval.Kind() == reflect.Ptr {
		mval = mval.Elem()
	}
	if !mval.Type().AssignableTo(dval.Type()) {
		return errors.Wrapf(errors.ErrType, "want %s, got %T", dval.Type(), msg)
	}
	dval.Set(mval)
	return nil
}
