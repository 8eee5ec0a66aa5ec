package model

import (
	"errors"
	"fmt"

	"github.com/jacentio/orchard/kv"
)

var (
	// ErrNoNodes is returned when a record is constructed without any store node configured.
	ErrNoNodes = fmt.Errorf("orchard: %w", kv.ErrNoNodes)

	// ErrInvalidBucket is returned when a definition has no bucket name.
	ErrInvalidBucket = errors.New("orchard: definition has no bucket name")

	// ErrInvalidKey is returned when a record is loaded with an empty key.
	ErrInvalidKey = errors.New("orchard: invalid key")

	// ErrIllegalState is returned when an operation is not allowed in the record's current state.
	ErrIllegalState = errors.New("orchard: operation not allowed in current record state")

	// ErrDetached is returned when a store command is issued on a record bound to no store client.
	ErrDetached = errors.New("orchard: record is not bound to a store client")

	// ErrNotImplemented is returned when the store client cannot serve an operation.
	ErrNotImplemented = errors.New("orchard: not implemented by store client")

	// ErrValidation is returned when a definition's validation hook rejects a record.
	ErrValidation = errors.New("orchard: record failed validation")

	// ErrMalformedPayload is returned when a fetched payload is not a flat JSON object.
	ErrMalformedPayload = errors.New("orchard: malformed payload")

	// ErrMalformedResponse is returned when a store response is missing or carries no location.
	ErrMalformedResponse = errors.New("orchard: store response has no location")
)
