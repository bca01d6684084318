package fbs

import (
	"errors"
	"fmt"

	"github.com/arloliu/ktable/errs"
)

// Recover turns a panic raised by an out of range buffer access into errs.ErrMalformedBuffer.
// A panic that already carries an errs.ErrMalformedBuffer error is returned as is.
// It must be deferred directly:
//
//	defer fbs.Recover(&err)
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok && errors.Is(e, errs.ErrMalformedBuffer) {
		*err = e
		return
	}
	*err = fmt.Errorf("%w: %v", errs.ErrMalformedBuffer, r)
}
