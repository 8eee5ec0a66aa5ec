package stream

import (
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeString {
			return v.String()
		}
	}
	return ""
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}

// attrValue converts a stream attribute value into its JSON form.
// Numbers keep their exact text. Sets become arrays.
func attrValue(v events.DynamoDBAttributeValue) any {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		return json.Number(v.Number())
	case events.DataTypeBoolean:
		return v.Boolean()
	case events.DataTypeBinary:
		return v.Binary()
	case events.DataTypeList:
		list := v.List()
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = attrValue(item)
		}
		return out
	case events.DataTypeMap:
		m := v.Map()
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = attrValue(item)
		}
		return out
	case events.DataTypeStringSet:
		ss := v.StringSet()
		out := make([]any, len(ss))
		for i, s := range ss {
			out[i] = s
		}
		return out
	case events.DataTypeNumberSet:
		ns := v.NumberSet()
		out := make([]any, len(ns))
		for i, n := range ns {
			out[i] = json.Number(n)
		}
		return out
	case events.DataTypeBinarySet:
		bs := v.BinarySet()
		out := make([]any, len(bs))
		for i, b := range bs {
			out[i] = b
		}
		return out
	default:
		return nil
	}
}
