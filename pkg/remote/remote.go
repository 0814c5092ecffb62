// Package remote implements a service giving access to a data store over
// JSON-RPC, and its client.
//
// The client satisfies the collaborator interfaces of editor trees, so that
// reference fields can look up entities and file fields can upload files
// through a daemon shared by several editors.
//
// Most methods of the service correspond to the methods of Store in the
// store package and are not documented here.
package remote

import (
	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/logutil"
)

var logger = logutil.GetLogger("[remote] ")

// Version is the API version. It should be bumped any time the API changes.
const Version = 1

// Error codes beyond those defined by JSON-RPC.
const (
	codeNoBlob   = 1
	codeNoEntity = 2
	codeNoStore  = 3
)

// Method names.
const (
	methodVersion   = "version"
	methodLookup    = "lookup"
	methodPut       = "put"
	methodBlob      = "blob"
	methodBlobs     = "blobs"
	methodDelBlob   = "delBlob"
	methodAddEntity = "addEntity"
	methodPutEntity = "putEntity"
	methodDelEntity = "delEntity"
	methodEntities  = "entities"
)

type lookupParams struct {
	EntityType string `json:"entityType"`
	Keyword    string `json:"keyword"`
}

type putParams struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"displayName"`
	Data        []byte `json:"data"`
}

type blobParams struct {
	StoredName string `json:"storedName"`
}

type blobResult struct {
	Ref  form.FileRef `json:"ref"`
	Data []byte       `json:"data"`
}

type entityParams struct {
	EntityType string `json:"entityType"`
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
}
