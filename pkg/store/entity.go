package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// ErrNoEntity is returned when there is no entity with the requested id.
var ErrNoEntity = errors.New("no such entity")

const bucketEntity = "entity"

func init() {
	initDB["initialize entity table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEntity))
		return err
	}
}

// AddEntity adds an entity with a fresh id, and returns the id. Ids are
// sequence numbers, unique within an entity type.
func (s *dbStore) AddEntity(entityType, label string) (string, error) {
	var id string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketEntity)).CreateBucketIfNotExists([]byte(entityType))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = strconv.FormatUint(seq, 10)
		return b.Put([]byte(id), []byte(label))
	})
	return id, err
}

// PutEntity adds or relabels an entity with a given id.
func (s *dbStore) PutEntity(entityType, id, label string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketEntity)).CreateBucketIfNotExists([]byte(entityType))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), []byte(label))
	})
}

// DelEntity deletes an entity.
func (s *dbStore) DelEntity(entityType, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEntity)).Bucket([]byte(entityType))
		if b == nil || b.Get([]byte(id)) == nil {
			return ErrNoEntity
		}
		return b.Delete([]byte(id))
	})
}

// Entities returns all entities of a type, as a map from ids to labels.
func (s *dbStore) Entities(entityType string) (map[string]string, error) {
	return s.match(entityType, func(string) bool { return true })
}

// Lookup returns the entities of a type whose label contains the keyword,
// ignoring case.
func (s *dbStore) Lookup(ctx context.Context, entityType, keyword string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keyword = strings.ToLower(keyword)
	return s.match(entityType, func(label string) bool {
		return strings.Contains(strings.ToLower(label), keyword)
	})
}

func (s *dbStore) match(entityType string, f func(label string) bool) (map[string]string, error) {
	found := map[string]string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEntity)).Bucket([]byte(entityType))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if f(string(v)) {
				found[string(k)] = string(v)
			}
			return nil
		})
	})
	return found, err
}
