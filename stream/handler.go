// Package stream provides a DynamoDB Streams handler turning item changes of mapped
// tables into record change notifications.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/orchard/kv"
	"github.com/jacentio/orchard/model"
)

// Op is the kind of change carried by a Change.
type Op int

const (
	// OpPut reports a record that was inserted or modified.
	OpPut Op = iota

	// OpDelete reports a record that was deleted.
	OpDelete
)

// String returns the op name.
func (o Op) String() string {
	switch o {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Change is one record change observed on the stream.
type Change struct {
	Op       Op
	Location kv.Location

	// Record holds the latest known attributes. It is detached from any store client.
	Record *model.Record
}

// Sink receives changes in stream order.
type Sink interface {
	HandleChange(ctx context.Context, change Change) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, change Change) error

// HandleChange calls f.
func (f SinkFunc) HandleChange(ctx context.Context, change Change) error {
	return f(ctx, change)
}

// Handler processes DynamoDB stream events of tables written by the dynamo driver.
type Handler struct {
	registry *model.Registry
	sink     Sink
	logger   *slog.Logger
	config   Config
}

// NewHandler creates a new stream handler delivering changes of registered record types to sink.
func NewHandler(registry *model.Registry, sink Sink, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = model.NewRegistry()
	}
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.validate()
	return &Handler{
		registry: registry,
		sink:     sink,
		logger:   logger,
		config:   config,
	}
}

// HandleEvent processes a batch of stream records.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) error {
	for i := range event.Records {
		record := &event.Records[i]
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single stream record.
func (h *Handler) processRecord(ctx context.Context, record *events.DynamoDBEventRecord) error {
	table := tableFromARN(record.EventSourceArn)
	bucket, ok := strings.CutPrefix(table, h.config.TablePrefix)
	if !ok || bucket == "" {
		h.logger.Debug("skipping record of foreign table", "table", table)
		return nil
	}
	def, ok := h.registry.Lookup(bucket)
	if !ok {
		h.logger.Debug("skipping record of unmapped bucket", "bucket", bucket)
		return nil
	}

	op, image, ok := h.classify(record)
	if !ok {
		return nil
	}

	key := getStringAttr(record.Change.Keys, h.config.KeyAttr)
	if key == "" {
		key = getStringAttr(image, h.config.KeyAttr)
	}
	if key == "" {
		return fmt.Errorf("record %s: missing key attribute %q", record.EventID, h.config.KeyAttr)
	}
	loc := kv.Location{Bucket: bucket, Key: key}

	payload, err := h.payload(image)
	if err != nil {
		return fmt.Errorf("decode image of %s: %w", loc, err)
	}
	rec, err := model.Hydrate(def, &kv.FetchResponse{Found: true, Location: loc, Payload: payload})
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", loc, err)
	}

	h.logger.Info("processing change",
		"op", op.String(),
		"bucket", bucket,
		"key", key,
	)

	if err := h.sink.HandleChange(ctx, Change{Op: op, Location: loc, Record: rec}); err != nil {
		return fmt.Errorf("sink %s: %w", loc, err)
	}
	return nil
}

// classify maps a stream record to a change op and the image describing the record.
// Deletes are reported once: when the TTL is first set. The later physical removal of
// an expired item, and writes to an already deleted item, are skipped.
func (h *Handler) classify(record *events.DynamoDBEventRecord) (Op, map[string]events.DynamoDBAttributeValue, bool) {
	oldTTL := getNumberAttr(record.Change.OldImage, ttlAttr)
	newTTL := getNumberAttr(record.Change.NewImage, ttlAttr)

	switch record.EventName {
	case "INSERT":
		return OpPut, record.Change.NewImage, true
	case "MODIFY":
		switch {
		case oldTTL == 0 && newTTL != 0:
			return OpDelete, record.Change.NewImage, true
		case newTTL != 0:
			return 0, nil, false
		default:
			return OpPut, record.Change.NewImage, true
		}
	case "REMOVE":
		if oldTTL != 0 {
			return 0, nil, false
		}
		return OpDelete, record.Change.OldImage, true
	default:
		return 0, nil, false
	}
}

// payload encodes the non-managed attributes of image as a JSON object.
func (h *Handler) payload(image map[string]events.DynamoDBAttributeValue) ([]byte, error) {
	data := make(map[string]any, len(image))
	for name, v := range image {
		if name == h.config.KeyAttr || name == ttlAttr {
			continue
		}
		data[name] = attrValue(v)
	}
	return json.Marshal(data)
}

// tableFromARN extracts the table name from a stream ARN of the form
// arn:aws:dynamodb:region:account:table/NAME/stream/LABEL.
func tableFromARN(arn string) string {
	_, rest, ok := strings.Cut(arn, ":table/")
	if !ok {
		return ""
	}
	table, _, _ := strings.Cut(rest, "/")
	return table
}
