// Package store implements the storage service behind file and reference
// fields: a blob store for uploaded files and a table of entities that
// references point to. It is backed by a bbolt database.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"src.elv.sh/formtk/pkg/form"
	"src.elv.sh/formtk/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

var initDB = map[string](func(*bolt.Tx) error){}

// Store is the interface of the storage service.
type Store interface {
	form.BlobStore
	form.Lookuper

	Blob(storedName string) (form.FileRef, []byte, error)
	Blobs() ([]form.FileRef, error)
	DelBlob(storedName string) error

	AddEntity(entityType, label string) (string, error)
	PutEntity(entityType, id, label string) error
	DelEntity(entityType, id string) error
	Entities(entityType string) (map[string]string, error)
}

// DBStore is a Store backed by a database.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

func dbWithDefaultOptions(dbname string) (*bolt.DB, error) {
	return bolt.Open(dbname, 0644, &bolt.Options{Timeout: 1 * time.Second})
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := dbWithDefaultOptions(dbname)
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	return st, err
}

// Close releases the database.
func (s *dbStore) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
