// Package storage keeps converter state in a pebble database: snapshots of
// container files taken before they are overwritten, and a reverse index
// from NameHash ids to the asset paths that produced them.
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/dbckit/pkg/hashname"
)

var (
	snapshotPrefix = []byte("s/")
	namePrefix     = []byte("n/")
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("not found")

// SnapshotInfo describes a stored snapshot without its data.
type SnapshotInfo struct {
	ID      ksuid.KSUID `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Created time.Time   `json:"created" yaml:"created"`
	Size    int         `json:"size" yaml:"size"`
}

type DefaultStorage struct {
	db *pebble.DB
}

func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", path, err)
	}
	return &DefaultStorage{db: db}, nil
}

func snapshotKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), snapshotPrefix...), id.Bytes()...)
}

// snapshot values are uvarint(len(name)) name data
func encodeSnapshot(name string, data []byte) []byte {
	buf := binary.AppendUvarint(nil, uint64(len(name)))
	buf = append(buf, name...)
	return append(buf, data...)
}

func decodeSnapshot(value []byte) (string, []byte, error) {
	n, w := binary.Uvarint(value)
	if w <= 0 || uint64(len(value)-w) < n {
		return "", nil, errors.New("corrupt snapshot value")
	}
	return string(value[w : w+int(n)]), value[w+int(n):], nil
}

// CreateSnapshot stores data under a new id. name is usually the path the
// data was read from.
func (s *DefaultStorage) CreateSnapshot(name string, data []byte) (*ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(snapshotKey(id), encodeSnapshot(name, data), pebble.Sync); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	return &id, nil
}

// ReadSnapshot returns the name and data of snapshot id.
func (s *DefaultStorage) ReadSnapshot(id *ksuid.KSUID) (string, []byte, error) {
	value, closer, err := s.db.Get(snapshotKey(*id))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", nil, err
	}
	defer closer.Close()

	name, data, err := decodeSnapshot(value)
	if err != nil {
		return "", nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	// pebble owns value until closer is closed
	return name, bytes.Clone(data), nil
}

func (s *DefaultStorage) DeleteSnapshot(id *ksuid.KSUID) error {
	key := snapshotKey(*id)
	_, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	closer.Close()
	return s.db.Delete(key, pebble.Sync)
}

// ListSnapshots returns all snapshots, oldest first.
func (s *DefaultStorage) ListSnapshots() ([]SnapshotInfo, error) {
	var out []SnapshotInfo
	err := s.scan(snapshotPrefix, func(key, value []byte) error {
		id, err := ksuid.FromBytes(key[len(snapshotPrefix):])
		if err != nil {
			return fmt.Errorf("snapshot key %x: %w", key, err)
		}
		name, data, err := decodeSnapshot(value)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", id, err)
		}
		out = append(out, SnapshotInfo{ID: id, Name: name, Created: id.Time(), Size: len(data)})
		return nil
	})
	return out, err
}

func nameKey(id uint32, path string) []byte {
	key := append([]byte(nil), namePrefix...)
	key = binary.BigEndian.AppendUint32(key, id)
	return append(key, path...)
}

// IndexName records path under its NameHash id and returns the id.
func (s *DefaultStorage) IndexName(path string) (uint32, error) {
	if err := hashname.Check(path); err != nil {
		return 0, err
	}
	id := hashname.ID(path)
	if err := s.db.Set(nameKey(id, hashname.Normalize(path)), nil, pebble.NoSync); err != nil {
		return 0, fmt.Errorf("index %q: %w", path, err)
	}
	return id, nil
}

// LookupNames returns the normalised paths indexed under id, sorted.
func (s *DefaultStorage) LookupNames(id uint32) ([]string, error) {
	prefix := nameKey(id, "")
	var names []string
	err := s.scan(prefix, func(key, _ []byte) error {
		names = append(names, string(key[len(prefix):]))
		return nil
	})
	sort.Strings(names)
	return names, err
}

func (s *DefaultStorage) scan(prefix []byte, fn func(key, value []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			iter.Close()
			return err
		}
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *DefaultStorage) Close() error {
	return s.db.Close()
}
