package stream

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

// --- getStringAttr Tests ---

func TestGetStringAttr_ExistingString(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"id": events.NewStringAttribute("k1"),
	}

	result := getStringAttr(image, "id")
	if result != "k1" {
		t.Errorf("expected 'k1', got %q", result)
	}
}

func TestGetStringAttr_MissingKey(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"other": events.NewStringAttribute("value"),
	}

	if result := getStringAttr(image, "id"); result != "" {
		t.Errorf("expected empty string for missing key, got %q", result)
	}
}

func TestGetStringAttr_NilImage(t *testing.T) {
	var image map[string]events.DynamoDBAttributeValue

	if result := getStringAttr(image, "id"); result != "" {
		t.Errorf("expected empty string for nil image, got %q", result)
	}
}

func TestGetStringAttr_NumberAttribute(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"id": events.NewNumberAttribute("42"),
	}

	if result := getStringAttr(image, "id"); result != "" {
		t.Errorf("expected empty string for number attribute, got %q", result)
	}
}

func TestGetStringAttr_UnicodeValue(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"id": events.NewStringAttribute("日本語テスト"),
	}

	if result := getStringAttr(image, "id"); result != "日本語テスト" {
		t.Errorf("expected '日本語テスト', got %q", result)
	}
}

// --- getNumberAttr Tests ---

func TestGetNumberAttr(t *testing.T) {
	tests := []struct {
		name     string
		image    map[string]events.DynamoDBAttributeValue
		expected int64
	}{
		{"valid", map[string]events.DynamoDBAttributeValue{"ttl": events.NewNumberAttribute("1234567890")}, 1234567890},
		{"negative", map[string]events.DynamoDBAttributeValue{"ttl": events.NewNumberAttribute("-100")}, -100},
		{"max int64", map[string]events.DynamoDBAttributeValue{"ttl": events.NewNumberAttribute("9223372036854775807")}, 9223372036854775807},
		{"missing", map[string]events.DynamoDBAttributeValue{"other": events.NewNumberAttribute("42")}, 0},
		{"nil image", nil, 0},
		{"string attribute", map[string]events.DynamoDBAttributeValue{"ttl": events.NewStringAttribute("not-a-number")}, 0},
		{"decimal", map[string]events.DynamoDBAttributeValue{"ttl": events.NewNumberAttribute("1.5")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getNumberAttr(tt.image, "ttl"); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

// --- attrValue Tests ---

func TestAttrValue(t *testing.T) {
	tests := []struct {
		name     string
		value    events.DynamoDBAttributeValue
		expected any
	}{
		{"string", events.NewStringAttribute("Alice"), "Alice"},
		{"number", events.NewNumberAttribute("12.50"), json.Number("12.50")},
		{"boolean", events.NewBooleanAttribute(true), true},
		{"null", events.NewNullAttribute(), nil},
		{"binary", events.NewBinaryAttribute([]byte{1, 2}), []byte{1, 2}},
		{
			"list",
			events.NewListAttribute([]events.DynamoDBAttributeValue{
				events.NewStringAttribute("a"),
				events.NewNumberAttribute("1"),
			}),
			[]any{"a", json.Number("1")},
		},
		{
			"map",
			events.NewMapAttribute(map[string]events.DynamoDBAttributeValue{
				"city": events.NewStringAttribute("Oslo"),
			}),
			map[string]any{"city": "Oslo"},
		},
		{"string set", events.NewStringSetAttribute([]string{"x", "y"}), []any{"x", "y"}},
		{"number set", events.NewNumberSetAttribute([]string{"1", "2"}), []any{json.Number("1"), json.Number("2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attrValue(tt.value)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

// --- tableFromARN Tests ---

func TestTableFromARN(t *testing.T) {
	tests := []struct {
		arn      string
		expected string
	}{
		{"arn:aws:dynamodb:us-east-1:123456789012:table/app-users/stream/2024-01-01T00:00:00.000", "app-users"},
		{"arn:aws:dynamodb:us-east-1:123456789012:table/users", "users"},
		{"arn:aws:sqs:us-east-1:123456789012:queue", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := tableFromARN(tt.arn); got != tt.expected {
			t.Errorf("tableFromARN(%q) = %q, want %q", tt.arn, got, tt.expected)
		}
	}
}

// --- Benchmark Tests ---

func BenchmarkGetNumberAttr(b *testing.B) {
	image := map[string]events.DynamoDBAttributeValue{
		"ttl": events.NewNumberAttribute("1704067200"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		getNumberAttr(image, "ttl")
	}
}

func BenchmarkAttrValue(b *testing.B) {
	v := events.NewMapAttribute(map[string]events.DynamoDBAttributeValue{
		"name": events.NewStringAttribute("Alice"),
		"tags": events.NewStringSetAttribute([]string{"a", "b", "c"}),
		"age":  events.NewNumberAttribute("30"),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		attrValue(v)
	}
}
