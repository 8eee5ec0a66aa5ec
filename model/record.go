package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jacentio/orchard/kv"
)

// State is the persistence state of a record.
type State int

const (
	// StateNew is the state of a record that was never saved or loaded.
	StateNew State = iota

	// StatePersisted is the state of a record bound to a stored object.
	StatePersisted

	// StateDeleted is the terminal state after a successful delete.
	StateDeleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePersisted:
		return "persisted"
	case StateDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Record is one mapped instance of a record type.
// A Record is not safe for concurrent use.
type Record struct {
	def    *Definition
	driver kv.Driver
	logger *slog.Logger

	key      string
	location kv.Location
	state    State
	attrs    *Attributes
}

// New creates a record of type def bound to the shared store client for cfg.
// cfg is merged into DefaultConfig.
func New(def *Definition, cfg Config) (*Record, error) {
	if def == nil || def.Bucket() == "" {
		return nil, ErrInvalidBucket
	}
	cfg = resolve(cfg)
	cluster, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithDriver(def, cluster, cfg.Logger), nil
}

// NewWithDriver creates a record of type def bound to an explicit store client.
// A nil driver yields a detached record, usable for attribute handling and Populate only.
func NewWithDriver(def *Definition, driver kv.Driver, logger *slog.Logger) *Record {
	if logger == nil {
		logger = slog.Default()
	}
	return &Record{
		def:    def,
		driver: driver,
		logger: logger,
		state:  StateNew,
		attrs:  NewAttributes(def),
	}
}

// Hydrate builds a detached, persisted record of type def from a fetch response.
// The response must carry a location with a key.
func Hydrate(def *Definition, resp *kv.FetchResponse) (*Record, error) {
	if resp == nil || resp.Location.Key == "" {
		return nil, fmt.Errorf("hydrate %s: %w", def.Bucket(), ErrMalformedResponse)
	}
	r := NewWithDriver(def, nil, nil)
	if err := r.Populate(resp); err != nil {
		return nil, err
	}
	if r.location.Bucket == "" {
		r.location.Bucket = def.Bucket()
	}
	r.state = StatePersisted
	return r, nil
}

// Definition returns the record's type definition.
func (r *Record) Definition() *Definition {
	return r.def
}

// Bucket returns the bucket the record is stored in.
func (r *Record) Bucket() string {
	return r.def.Bucket()
}

// Key returns the record's key, empty until the first successful save or load.
func (r *Record) Key() string {
	return r.key
}

// Location returns the bound location, zero until the first successful save or load.
func (r *Record) Location() kv.Location {
	return r.location
}

// State returns the persistence state.
func (r *Record) State() State {
	return r.state
}

// IsNew reports whether the record was never persisted or loaded.
func (r *Record) IsNew() bool {
	return r.state == StateNew
}

// Attribute returns the declared description of the attribute called name.
func (r *Record) Attribute(name string) (Attribute, bool) {
	return r.def.Attribute(name)
}

// Attributes returns the record's attribute store.
func (r *Record) Attributes() *Attributes {
	return r.attrs
}

// Get returns the value of attribute name; ok is false when absent.
func (r *Record) Get(name string) (any, bool) {
	return r.attrs.Get(name)
}

// Set sets attribute name and reports whether the name is declared.
func (r *Record) Set(name string, value any) bool {
	return r.attrs.Set(name, value)
}

// GetAll returns every declared attribute; absent ones map to nil.
func (r *Record) GetAll() map[string]any {
	return r.attrs.GetAll()
}

// SetAll sets every declared attribute found in data. Nil values unset the attribute.
func (r *Record) SetAll(data map[string]any) {
	r.attrs.SetAll(data)
}

// String returns the serialized attributes.
func (r *Record) String() string {
	s, err := r.attrs.Serialize()
	if err != nil {
		return fmt.Sprintf("%%!(%s: %v)", r.def.Bucket(), err)
	}
	return s
}

// Save writes the record's attributes to the store.
//
// A new record is stored under a key assigned by the store, a persisted record at its
// location. ok is false when the store reports a non-success status; the record is then
// left unchanged and the call may be retried. err is reserved for illegal states and
// commands the driver could not execute.
func (r *Record) Save(ctx context.Context) (key string, ok bool, err error) {
	if r.state == StateDeleted {
		return "", false, fmt.Errorf("save %s: %w", r.location, ErrIllegalState)
	}
	if r.driver == nil {
		return "", false, ErrDetached
	}

	payload, err := json.Marshal(r.attrs.GetAll())
	if err != nil {
		return "", false, fmt.Errorf("marshal payload: %w", err)
	}

	var resp *kv.StoreResponse
	if r.state == StateNew {
		resp, err = r.driver.StoreInBucket(ctx, r.def.Bucket(), payload)
	} else {
		resp, err = r.driver.StoreAtLocation(ctx, r.location, payload)
	}
	if err != nil {
		return "", false, fmt.Errorf("store in %s: %w", r.def.Bucket(), err)
	}

	if !kv.IsSuccess(resp.Status) {
		r.logger.Warn("store failed",
			"bucket", r.def.Bucket(),
			"key", r.key,
			"status", resp.Status,
		)
		return "", false, nil
	}

	loc := r.location
	if loc.IsZero() {
		loc = resp.Location
		if loc.Key == "" {
			return "", false, fmt.Errorf("store in %s: %w", r.def.Bucket(), ErrMalformedResponse)
		}
		if loc.Bucket == "" {
			loc.Bucket = r.def.Bucket()
		}
	}

	r.location = loc
	r.key = loc.Key
	r.state = StatePersisted

	r.logger.Debug("record saved",
		"bucket", loc.Bucket,
		"key", loc.Key,
		"status", resp.Status,
	)
	return r.key, true, nil
}

// Load fetches the object stored under key into the record.
//
// found is false when the store has no object at the location; the record is then left
// unchanged. A bound record may only reload its own key.
func (r *Record) Load(ctx context.Context, key string) (found bool, err error) {
	if key == "" {
		return false, ErrInvalidKey
	}
	if r.state == StateDeleted {
		return false, fmt.Errorf("load %s: %w", r.location, ErrIllegalState)
	}
	if !r.location.IsZero() && r.location.Key != key {
		return false, fmt.Errorf("load %q into record bound to %s: %w", key, r.location, ErrIllegalState)
	}
	if r.driver == nil {
		return false, ErrDetached
	}

	loc := kv.Location{Bucket: r.def.Bucket(), Key: key}
	resp, err := r.driver.Fetch(ctx, loc)
	if err != nil {
		return false, fmt.Errorf("fetch %s: %w", loc, err)
	}
	if !resp.Found {
		r.logger.Debug("record not found", "bucket", loc.Bucket, "key", loc.Key)
		return false, nil
	}

	prev := r.location
	r.location = loc
	if err := r.Populate(resp); err != nil {
		r.location = prev
		return false, err
	}
	r.state = StatePersisted
	return true, nil
}

// Populate applies a fetch response to the record: it binds the location if unbound,
// takes the key from the location and sets every declared attribute of the payload.
// JSON null leaves the attribute unset.
func (r *Record) Populate(resp *kv.FetchResponse) error {
	if resp == nil {
		return ErrMalformedResponse
	}
	data, err := decodePayload(resp.Payload)
	if err != nil {
		return err
	}
	if r.location.IsZero() {
		r.location = resp.Location
	}
	r.key = r.location.Key
	r.attrs.SetAll(data)
	return nil
}

// Delete removes the record from the store and reports whether the store confirmed it.
// After a successful delete the record is terminal.
func (r *Record) Delete(ctx context.Context) (bool, error) {
	if r.state != StatePersisted || r.key == "" {
		return false, fmt.Errorf("delete %s record: %w", r.state, ErrIllegalState)
	}
	if r.driver == nil {
		return false, ErrDetached
	}

	resp, err := r.driver.Delete(ctx, r.location)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.location, err)
	}
	if !resp.Success {
		r.logger.Warn("delete failed",
			"bucket", r.location.Bucket,
			"key", r.location.Key,
			"status", resp.Status,
		)
		return false, nil
	}

	r.state = StateDeleted
	r.logger.Debug("record deleted", "bucket", r.location.Bucket, "key", r.location.Key)
	return true, nil
}

// Validate runs the definition's validation hook, if any.
func (r *Record) Validate() error {
	if r.def.validate == nil {
		return nil
	}
	if err := r.def.validate(r.attrs); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Update saves a persisted record at its location, validating it first when runValidation is set.
func (r *Record) Update(ctx context.Context, runValidation bool) (bool, error) {
	if r.state != StatePersisted {
		return false, fmt.Errorf("update %s record: %w", r.state, ErrIllegalState)
	}
	if runValidation {
		if err := r.Validate(); err != nil {
			return false, err
		}
	}
	_, ok, err := r.Save(ctx)
	return ok, err
}

// Insert stores a new record under a key assigned by the store, validating it first
// when runValidation is set.
func (r *Record) Insert(ctx context.Context, runValidation bool) (string, bool, error) {
	if r.state != StateNew {
		return "", false, fmt.Errorf("insert %s record: %w", r.state, ErrIllegalState)
	}
	if runValidation {
		if err := r.Validate(); err != nil {
			return "", false, err
		}
	}
	return r.Save(ctx)
}

// decodePayload decodes a flat JSON object. An empty payload decodes to no attributes.
func decodePayload(payload []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return data, nil
}
