package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jacentio/orchard/model"
)

func TestErrors(t *testing.T) {
	errs := []error{
		model.ErrNoNodes,
		model.ErrInvalidBucket,
		model.ErrInvalidKey,
		model.ErrIllegalState,
		model.ErrDetached,
		model.ErrNotImplemented,
		model.ErrValidation,
		model.ErrMalformedPayload,
		model.ErrMalformedResponse,
	}

	for i, err := range errs {
		if !strings.HasPrefix(err.Error(), "orchard:") {
			t.Errorf("error %q should start with 'orchard:'", err.Error())
		}
		for j, other := range errs {
			if i != j && errors.Is(err, other) {
				t.Errorf("error %q should not match %q", err, other)
			}
		}
	}
}
