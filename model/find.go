package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/tidwall/gjson"

	"github.com/jacentio/orchard/kv"
)

// FindOne scans def's bucket through the shared store client for cfg and returns the
// first record whose payload matches every condition. Condition keys are gjson paths
// compared by equality. It returns nil, nil when nothing matches.
func FindOne(ctx context.Context, def *Definition, cfg Config, cond map[string]any) (*Record, error) {
	if def == nil || def.Bucket() == "" {
		return nil, ErrInvalidBucket
	}
	cfg = resolve(cfg)
	cluster, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return FindOneWithDriver(ctx, def, cluster, cfg.Logger, cond)
}

// FindOneWithDriver is FindOne against an explicit store client.
// It returns ErrNotImplemented when the client cannot scan buckets.
func FindOneWithDriver(ctx context.Context, def *Definition, driver kv.Driver, logger *slog.Logger, cond map[string]any) (*Record, error) {
	scanner, ok := driver.(kv.Scanner)
	if !ok {
		return nil, ErrNotImplemented
	}

	want, err := compileConditions(cond)
	if err != nil {
		return nil, err
	}

	var match *kv.FetchResponse
	err = scanner.Scan(ctx, def.Bucket(), func(resp *kv.FetchResponse) bool {
		if resp.Found && matches(resp.Payload, want) {
			match = resp
			return false
		}
		return true
	})
	if errors.Is(err, kv.ErrScanUnsupported) {
		return nil, ErrNotImplemented
	}
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", def.Bucket(), err)
	}
	if match == nil {
		return nil, nil
	}

	r := NewWithDriver(def, driver, logger)
	if err := r.Populate(match); err != nil {
		return nil, err
	}
	if r.location.Bucket == "" {
		r.location.Bucket = def.Bucket()
	}
	r.state = StatePersisted
	return r, nil
}

// compileConditions converts condition values to gjson results so they compare
// the same way as payload values.
func compileConditions(cond map[string]any) (map[string]gjson.Result, error) {
	want := make(map[string]gjson.Result, len(cond))
	for path, v := range cond {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", path, err)
		}
		want[path] = gjson.ParseBytes(b)
	}
	return want, nil
}

// matches reports whether payload satisfies every condition.
func matches(payload []byte, want map[string]gjson.Result) bool {
	for path, w := range want {
		got := gjson.GetBytes(payload, path)
		if !got.Exists() || !equalResults(got, w) {
			return false
		}
	}
	return true
}

func equalResults(a, b gjson.Result) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case gjson.String:
		return a.Str == b.Str
	case gjson.Number:
		return a.Num == b.Num
	case gjson.True, gjson.False, gjson.Null:
		return true
	default:
		return reflect.DeepEqual(a.Value(), b.Value())
	}
}
