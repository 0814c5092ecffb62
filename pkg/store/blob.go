package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"src.elv.sh/formtk/pkg/form"
)

// ErrNoBlob is returned when there is no blob with the requested name.
var ErrNoBlob = errors.New("no such blob")

const (
	bucketBlob      = "blob"
	bucketBlobOrder = "blob_order"
)

var (
	keyData        = []byte("data")
	keyDisplayName = []byte("displayName")
	keyKind        = []byte("kind")
	keySeq         = []byte("seq")
)

func init() {
	initDB["initialize blob table"] = func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketBlob)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBlobOrder))
		return err
	}
}

// Put stores a blob under a fresh random name that keeps the extension of
// the display name.
func (s *dbStore) Put(ctx context.Context, kind, displayName string, r io.Reader) (form.FileRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return form.FileRef{}, err
	}
	if err := ctx.Err(); err != nil {
		return form.FileRef{}, err
	}
	ref := form.FileRef{
		StoredName:  uuid.NewString() + filepath.Ext(displayName),
		DisplayName: displayName,
		Kind:        kind,
		Size:        int64(len(data)),
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		order := tx.Bucket([]byte(bucketBlobOrder))
		seq, err := order.NextSequence()
		if err != nil {
			return err
		}
		if err := order.Put(marshalSeq(seq), []byte(ref.StoredName)); err != nil {
			return err
		}
		b, err := tx.Bucket([]byte(bucketBlob)).CreateBucket([]byte(ref.StoredName))
		if err != nil {
			return err
		}
		for _, kv := range [][2][]byte{
			{keySeq, marshalSeq(seq)},
			{keyData, data},
			{keyDisplayName, []byte(displayName)},
			{keyKind, []byte(kind)},
		} {
			if err := b.Put(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return form.FileRef{}, err
	}
	logger.Printf("stored %s as %s (%d bytes)", displayName, ref.StoredName, ref.Size)
	return ref, nil
}

// Blob returns the descriptor and the content of a blob.
func (s *dbStore) Blob(storedName string) (form.FileRef, []byte, error) {
	var ref form.FileRef
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBlob)).Bucket([]byte(storedName))
		if b == nil {
			return ErrNoBlob
		}
		ref = refOf(storedName, b)
		// Values are only valid for the life of the transaction.
		data = append([]byte(nil), b.Get(keyData)...)
		return nil
	})
	return ref, data, err
}

// Blobs returns the descriptors of all blobs, in the order they were stored.
func (s *dbStore) Blobs() ([]form.FileRef, error) {
	var refs []form.FileRef
	err := s.db.View(func(tx *bolt.Tx) error {
		blobs := tx.Bucket([]byte(bucketBlob))
		c := tx.Bucket([]byte(bucketBlobOrder)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if b := blobs.Bucket(v); b != nil {
				refs = append(refs, refOf(string(v), b))
			}
		}
		return nil
	})
	return refs, err
}

// DelBlob deletes a blob.
func (s *dbStore) DelBlob(storedName string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		blobs := tx.Bucket([]byte(bucketBlob))
		b := blobs.Bucket([]byte(storedName))
		if b == nil {
			return ErrNoBlob
		}
		seq := append([]byte(nil), b.Get(keySeq)...)
		if err := tx.Bucket([]byte(bucketBlobOrder)).Delete(seq); err != nil {
			return err
		}
		return blobs.DeleteBucket([]byte(storedName))
	})
}

func refOf(storedName string, b *bolt.Bucket) form.FileRef {
	return form.FileRef{
		StoredName:  storedName,
		DisplayName: string(b.Get(keyDisplayName)),
		Kind:        string(b.Get(keyKind)),
		Size:        int64(len(b.Get(keyData))),
	}
}
