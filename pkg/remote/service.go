package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/sourcegraph/jsonrpc2"

	"src.elv.sh/formtk/pkg/store"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// A service serves the methods of a store. If the store could not be
// opened, st is nil and err is the reason; every method except version then
// fails.
type service struct {
	st  store.Store
	err error
}

// NewHandler returns a handler serving the methods of st.
func NewHandler(st store.Store) jsonrpc2.Handler {
	return (&service{st: st}).handler()
}

func (s *service) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		methodVersion:   s.version,
		methodLookup:    s.lookup,
		methodPut:       s.put,
		methodBlob:      s.blob,
		methodBlobs:     s.blobs,
		methodDelBlob:   s.delBlob,
		methodAddEntity: s.addEntity,
		methodPutEntity: s.putEntity,
		methodDelEntity: s.delEntity,
		methodEntities:  s.entities,
	})
}

type method func(context.Context, json.RawMessage) (any, error)

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		result, err := fn(ctx, params)
		if err != nil {
			logger.Printf("%s: %v", req.Method, err)
			return nil, toRPCError(err)
		}
		return result, nil
	}).SuppressErrClosed()
}

func toRPCError(err error) error {
	var rpcErr *jsonrpc2.Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, store.ErrNoBlob):
		return &jsonrpc2.Error{Code: codeNoBlob, Message: err.Error()}
	case errors.Is(err, store.ErrNoEntity):
		return &jsonrpc2.Error{Code: codeNoEntity, Message: err.Error()}
	}
	return err
}

func decode[T any](raw json.RawMessage) (T, error) {
	var params T
	if raw == nil || json.Unmarshal(raw, &params) != nil {
		return params, errInvalidParams
	}
	return params, nil
}

func (s *service) checkStore() error {
	if s.st == nil {
		msg := "store not available"
		if s.err != nil {
			msg += ": " + s.err.Error()
		}
		return &jsonrpc2.Error{Code: codeNoStore, Message: msg}
	}
	return nil
}

// Handler implementations. These are all called synchronously.

func (s *service) version(context.Context, json.RawMessage) (any, error) {
	return Version, nil
}

func (s *service) lookup(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[lookupParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return s.st.Lookup(ctx, params.EntityType, params.Keyword)
}

func (s *service) put(ctx context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[putParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return s.st.Put(ctx, params.Kind, params.DisplayName, bytes.NewReader(params.Data))
}

func (s *service) blob(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[blobParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	ref, data, err := s.st.Blob(params.StoredName)
	if err != nil {
		return nil, err
	}
	return blobResult{ref, data}, nil
}

func (s *service) blobs(context.Context, json.RawMessage) (any, error) {
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return s.st.Blobs()
}

func (s *service) delBlob(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[blobParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return nil, s.st.DelBlob(params.StoredName)
}

func (s *service) addEntity(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[entityParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return s.st.AddEntity(params.EntityType, params.Label)
}

func (s *service) putEntity(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[entityParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return nil, s.st.PutEntity(params.EntityType, params.ID, params.Label)
}

func (s *service) delEntity(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[entityParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return nil, s.st.DelEntity(params.EntityType, params.ID)
}

func (s *service) entities(_ context.Context, raw json.RawMessage) (any, error) {
	params, err := decode[entityParams](raw)
	if err != nil {
		return nil, err
	}
	if err := s.checkStore(); err != nil {
		return nil, err
	}
	return s.st.Entities(params.EntityType)
}
