package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/store"
)

// ErrNoStore is returned by the client when the daemon runs without a
// store.
var ErrNoStore = errors.New("daemon has no store")

// Client is a client of the daemon. It satisfies [form.Lookuper] and
// [form.BlobStore].
type Client struct {
	conn *jsonrpc2.Conn
}

var (
	_ form.Lookuper  = (*Client)(nil)
	_ form.BlobStore = (*Client)(nil)
)

// Dial connects to the daemon listening on sockpath, and checks that it
// speaks the same version of the API.
func Dial(ctx context.Context, sockpath string) (*Client, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "unix", sockpath)
	if err != nil {
		return nil, err
	}
	c := NewClient(nc)
	version, err := c.Version(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	if version != Version {
		c.Close()
		return nil, fmt.Errorf("daemon speaks API version %d, want %d", version, Version)
	}
	return c, nil
}

// NewClient returns a client talking to the daemon over rwc.
func NewClient(rwc io.ReadWriteCloser) *Client {
	conn := jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		routingHandler(nil))
	return &Client{conn}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	err := c.conn.Call(ctx, method, params, result)
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeNoBlob:
			return store.ErrNoBlob
		case codeNoEntity:
			return store.ErrNoEntity
		case codeNoStore:
			return fmt.Errorf("%w (%s)", ErrNoStore, rpcErr.Message)
		}
		return fmt.Errorf("%s: %s", method, rpcErr.Message)
	}
	return err
}

// Version returns the API version of the daemon.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	err := c.call(ctx, methodVersion, nil, &version)
	return version, err
}

// Lookup finds entities of the given type whose labels contain keyword.
func (c *Client) Lookup(ctx context.Context, entityType, keyword string) (map[string]string, error) {
	var result map[string]string
	err := c.call(ctx, methodLookup, lookupParams{entityType, keyword}, &result)
	return result, err
}

// Put reads r to the end and uploads its content.
func (c *Client) Put(ctx context.Context, kind, displayName string, r io.Reader) (form.FileRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return form.FileRef{}, err
	}
	var ref form.FileRef
	err = c.call(ctx, methodPut, putParams{kind, displayName, data}, &ref)
	return ref, err
}

func (c *Client) Blob(ctx context.Context, storedName string) (form.FileRef, []byte, error) {
	var result blobResult
	err := c.call(ctx, methodBlob, blobParams{storedName}, &result)
	return result.Ref, result.Data, err
}

func (c *Client) Blobs(ctx context.Context) ([]form.FileRef, error) {
	var refs []form.FileRef
	err := c.call(ctx, methodBlobs, nil, &refs)
	return refs, err
}

func (c *Client) DelBlob(ctx context.Context, storedName string) error {
	return c.call(ctx, methodDelBlob, blobParams{storedName}, nil)
}

func (c *Client) AddEntity(ctx context.Context, entityType, label string) (string, error) {
	var id string
	err := c.call(ctx, methodAddEntity, entityParams{EntityType: entityType, Label: label}, &id)
	return id, err
}

func (c *Client) PutEntity(ctx context.Context, entityType, id, label string) error {
	return c.call(ctx, methodPutEntity, entityParams{entityType, id, label}, nil)
}

func (c *Client) DelEntity(ctx context.Context, entityType, id string) error {
	return c.call(ctx, methodDelEntity, entityParams{EntityType: entityType, ID: id}, nil)
}

func (c *Client) Entities(ctx context.Context, entityType string) (map[string]string, error) {
	var result map[string]string
	err := c.call(ctx, methodEntities, entityParams{EntityType: entityType}, &result)
	return result, err
}
