// Package dynamo implements a kv.Driver backed by DynamoDB.
//
// Each bucket is a table keyed by a single string partition key. Object payloads
// are stored as top-level item attributes. Deletes are soft: they set a TTL on the
// item, and items with an expired TTL are reported as not found.
package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/orchard/kv"
)

// ErrReservedAttribute is returned when a payload sets an attribute the driver manages
// (the key attribute or the TTL).
var ErrReservedAttribute = errors.New("dynamo: payload sets a reserved attribute")

// API is the subset of the DynamoDB client used by the driver.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Driver executes store commands against DynamoDB tables.
type Driver struct {
	api    API
	config Config
}

// New creates a new Driver.
func New(api API, config Config) *Driver {
	config.validate()
	return &Driver{
		api:    api,
		config: config,
	}
}

// Dialer returns a kv.Dialer building one DynamoDB client per node, addressed at
// http://host:port (DynamoDB Local or a compatible endpoint). Every node must serve
// the same tables, see kv.Cluster.
func Dialer(ctx context.Context, cfg Config, optFns ...func(*config.LoadOptions) error) kv.Dialer {
	cfg.validate()
	return func(node kv.Node) (kv.Driver, error) {
		opts := append([]func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}, optFns...)
		awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String("http://" + node.Addr())
		})
		return New(client, cfg), nil
	}
}

// StoreInBucket puts the payload under a newly generated key.
func (d *Driver) StoreInBucket(ctx context.Context, bucket string, payload []byte) (*kv.StoreResponse, error) {
	key := d.config.NewKey()
	item, err := d.marshalItem(key, payload)
	if err != nil {
		return nil, err
	}

	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(d.config.tableName(bucket)),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#key)"),
		ExpressionAttributeNames: map[string]string{"#key": d.config.KeyAttr},
	})
	if err != nil {
		return storeFailure(err)
	}
	return &kv.StoreResponse{
		Status:   http.StatusCreated,
		Location: kv.Location{Bucket: bucket, Key: key},
	}, nil
}

// StoreAtLocation replaces the item at loc (last writer wins).
func (d *Driver) StoreAtLocation(ctx context.Context, loc kv.Location, payload []byte) (*kv.StoreResponse, error) {
	item, err := d.marshalItem(loc.Key, payload)
	if err != nil {
		return nil, err
	}

	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.config.tableName(loc.Bucket)),
		Item:      item,
	})
	if err != nil {
		return storeFailure(err)
	}
	return &kv.StoreResponse{Status: http.StatusOK, Location: loc}, nil
}

// Fetch reads the item at loc. Missing and deleted items are reported as not found.
func (d *Driver) Fetch(ctx context.Context, loc kv.Location) (*kv.FetchResponse, error) {
	result, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.config.tableName(loc.Bucket)),
		Key:            d.key(loc.Key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || IsDeleted(result.Item) {
		return &kv.FetchResponse{Location: loc}, nil
	}

	payload, err := d.unmarshalPayload(result.Item)
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", loc, err)
	}
	return &kv.FetchResponse{Found: true, Location: loc, Payload: payload}, nil
}

// Delete marks the item at loc for deletion by setting its TTL to now.
// Deleting a missing or already deleted item counts as success.
func (d *Driver) Delete(ctx context.Context, loc kv.Location) (*kv.DeleteResponse, error) {
	_, err := d.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.config.tableName(loc.Bucket)),
		Key:                 d.key(loc.Key),
		UpdateExpression:    aws.String("SET #ttl = :now"),
		ConditionExpression: aws.String("attribute_exists(#key) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: map[string]string{
			"#ttl": ttlAttr,
			"#key": d.config.KeyAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{
				Value: strconv.FormatInt(time.Now().Unix(), 10),
			},
		},
	})
	if err == nil {
		return &kv.DeleteResponse{Success: true, Status: http.StatusOK}, nil
	}

	// Condition failure - missing or already deleted
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return &kv.DeleteResponse{Success: true, Status: http.StatusNotFound}, nil
	}
	if status, ok := httpStatus(err); ok {
		return &kv.DeleteResponse{Status: status}, nil
	}
	return nil, err
}

// Scan walks every active item of the bucket's table.
func (d *Driver) Scan(ctx context.Context, bucket string, fn func(*kv.FetchResponse) bool) error {
	paginator := dynamodb.NewScanPaginator(d.api, &dynamodb.ScanInput{
		TableName:                 aws.String(d.config.tableName(bucket)),
		FilterExpression:          aws.String(TTLFilterExpr()),
		ExpressionAttributeNames:  TTLFilterNames(),
		ExpressionAttributeValues: TTLFilterValues(),
		ConsistentRead:            aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			key, ok := item[d.config.KeyAttr].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			payload, err := d.unmarshalPayload(item)
			if err != nil {
				return fmt.Errorf("unmarshal %s/%s: %w", bucket, key.Value, err)
			}
			resp := &kv.FetchResponse{
				Found:    true,
				Location: kv.Location{Bucket: bucket, Key: key.Value},
				Payload:  payload,
			}
			if !fn(resp) {
				return nil
			}
		}
	}
	return nil
}

// key builds the primary key for an object key.
func (d *Driver) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		d.config.KeyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

// isManaged reports whether attribute name is owned by the driver.
func (d *Driver) isManaged(name string) bool {
	return name == d.config.KeyAttr || name == ttlAttr
}

// marshalItem converts a JSON payload into an item stored under key.
// Null payload attributes named like managed attributes are dropped; any other
// value under a managed name is rejected with ErrReservedAttribute.
func (d *Driver) marshalItem(key string, payload []byte) (map[string]types.AttributeValue, error) {
	data := map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	for name, v := range data {
		if !d.isManaged(name) {
			continue
		}
		if v != nil {
			return nil, fmt.Errorf("%w: %q", ErrReservedAttribute, name)
		}
		delete(data, name)
	}

	item, err := attributevalue.MarshalMap(data)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	item[d.config.KeyAttr] = &types.AttributeValueMemberS{Value: key}
	return item, nil
}

// unmarshalPayload converts an item back into a JSON payload without managed attributes.
func (d *Driver) unmarshalPayload(item map[string]types.AttributeValue) ([]byte, error) {
	data := map[string]any{}
	if err := attributevalue.UnmarshalMap(item, &data); err != nil {
		return nil, err
	}
	for name := range data {
		if d.isManaged(name) {
			delete(data, name)
		}
	}
	return json.Marshal(data)
}

// storeFailure turns store errors carrying a status into a store response.
func storeFailure(err error) (*kv.StoreResponse, error) {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return &kv.StoreResponse{Status: http.StatusConflict}, nil
	}
	if status, ok := httpStatus(err); ok {
		return &kv.StoreResponse{Status: status}, nil
	}
	return nil, err
}

// httpStatus extracts the HTTP status of an AWS response error.
func httpStatus(err error) (int, bool) {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode(), true
	}
	return 0, false
}
