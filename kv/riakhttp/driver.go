// Package riakhttp implements a kv.Driver over the Riak HTTP object API.
package riakhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/jacentio/orchard/kv"
)

// ErrUnexpectedStatus is returned when a fetch or key listing receives a status it cannot interpret.
var ErrUnexpectedStatus = errors.New("riakhttp: unexpected status")

// Driver talks to one node over HTTP. It is safe for concurrent use.
type Driver struct {
	baseURL string
	client  *http.Client
	scheme  string
}

// Option configures a Driver.
type Option func(*Driver)

// WithHTTPClient sets the HTTP client used for requests.
// Default: a new http.Client without timeout (cancel through the context).
func WithHTTPClient(c *http.Client) Option {
	return func(d *Driver) {
		d.client = c
	}
}

// WithScheme sets the URL scheme.
// Default: "http"
func WithScheme(scheme string) Option {
	return func(d *Driver) {
		d.scheme = scheme
	}
}

// New creates a driver for node.
func New(node kv.Node, opts ...Option) *Driver {
	d := &Driver{
		client: &http.Client{},
		scheme: "http",
	}
	for _, opt := range opts {
		opt(d)
	}
	d.baseURL = fmt.Sprintf("%s://%s", d.scheme, node.Addr())
	return d
}

// Dial is a kv.Dialer building HTTP drivers with default options.
func Dial(node kv.Node) (kv.Driver, error) {
	return New(node), nil
}

func (d *Driver) keysURL(bucket string) string {
	return fmt.Sprintf("%s/buckets/%s/keys", d.baseURL, url.PathEscape(bucket))
}

func (d *Driver) objectURL(loc kv.Location) string {
	return d.keysURL(loc.Bucket) + "/" + url.PathEscape(loc.Key)
}

// StoreInBucket POSTs payload to the bucket; the node assigns the key and reports it
// in the Location header.
func (d *Driver) StoreInBucket(ctx context.Context, bucket string, payload []byte) (*kv.StoreResponse, error) {
	resp, err := d.do(ctx, http.MethodPost, d.keysURL(bucket), payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	result := &kv.StoreResponse{Status: resp.StatusCode}
	if kv.IsSuccess(resp.StatusCode) {
		key, err := keyFromLocation(resp.Header.Get("Location"))
		if err != nil {
			return nil, err
		}
		result.Location = kv.Location{Bucket: bucket, Key: key}
	}
	return result, nil
}

// StoreAtLocation PUTs payload at loc.
func (d *Driver) StoreAtLocation(ctx context.Context, loc kv.Location, payload []byte) (*kv.StoreResponse, error) {
	resp, err := d.do(ctx, http.MethodPut, d.objectURL(loc), payload)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	result := &kv.StoreResponse{Status: resp.StatusCode}
	if kv.IsSuccess(resp.StatusCode) {
		result.Location = loc
	}
	return result, nil
}

// Fetch GETs the object at loc.
func (d *Driver) Fetch(ctx context.Context, loc kv.Location) (*kv.FetchResponse, error) {
	resp, err := d.do(ctx, http.MethodGet, d.objectURL(loc), nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", loc, err)
		}
		return &kv.FetchResponse{Found: true, Location: loc, Payload: body}, nil
	case http.StatusNotFound:
		return &kv.FetchResponse{Location: loc}, nil
	default:
		return nil, fmt.Errorf("fetch %s: %w %d", loc, ErrUnexpectedStatus, resp.StatusCode)
	}
}

// Delete DELETEs the object at loc. Deleting a missing object counts as success.
func (d *Driver) Delete(ctx context.Context, loc kv.Location) (*kv.DeleteResponse, error) {
	resp, err := d.do(ctx, http.MethodDelete, d.objectURL(loc), nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	return &kv.DeleteResponse{
		Success: kv.IsSuccess(resp.StatusCode) || resp.StatusCode == http.StatusNotFound,
		Status:  resp.StatusCode,
	}, nil
}

// Scan lists the bucket's keys and fetches each object. Keys deleted while
// scanning are skipped.
func (d *Driver) Scan(ctx context.Context, bucket string, fn func(*kv.FetchResponse) bool) error {
	keys, err := d.listKeys(ctx, bucket)
	if err != nil {
		return err
	}
	for _, key := range keys {
		resp, err := d.Fetch(ctx, kv.Location{Bucket: bucket, Key: key})
		if err != nil {
			return err
		}
		if !resp.Found {
			continue
		}
		if !fn(resp) {
			return nil
		}
	}
	return nil
}

func (d *Driver) listKeys(ctx context.Context, bucket string) ([]string, error) {
	resp, err := d.do(ctx, http.MethodGet, d.keysURL(bucket)+"?keys=true", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: %w %d", bucket, ErrUnexpectedStatus, resp.StatusCode)
	}
	var listing struct {
		Keys []string `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode key listing of %s: %w", bucket, err)
	}
	return listing.Keys, nil
}

// Close releases idle connections.
func (d *Driver) Close() error {
	d.client.CloseIdleConnections()
	return nil
}

func (d *Driver) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return d.client.Do(req)
}

// keyFromLocation extracts the key from a Location header such as
// "/buckets/users/keys/k1" or "/types/default/buckets/users/keys/k1".
func keyFromLocation(location string) (string, error) {
	if location == "" {
		return "", errors.New("riakhttp: store response has no Location header")
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("riakhttp: parse Location header: %w", err)
	}
	dir, key := path.Split(u.Path)
	if key == "" || !strings.HasSuffix(dir, "/keys/") {
		return "", fmt.Errorf("riakhttp: malformed Location header %q", location)
	}
	return key, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
