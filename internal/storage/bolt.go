package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var entriesBucket = []byte("entries")

// BoltKV is a bbolt-backed KV, the durable backend for local play. All
// pairs live in a single bucket; keys come out of Keys in byte order.
type BoltKV struct {
	db   *bolt.DB
	path string
}

// OpenBolt opens (creating if needed) the data file at path. Supports ~
// for the home directory and creates parent directories.
func OpenBolt(path string) (*BoltKV, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(expanded); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create data directory: %w", err)
		}
	}

	db, err := bolt.Open(expanded, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open data file: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot prepare data file: %w", err)
	}
	return &BoltKV{db: db, path: expanded}, nil
}

// Path returns the resolved location of the data file.
func (b *BoltKV) Path() string {
	return b.path
}

// Get returns the value for key, or ErrNotFound.
func (b *BoltKV) Get(key string) (string, error) {
	var value string
	found := false
	err := b.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(entriesBucket).Get([]byte(key)); data != nil {
			value = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value, replacing any previous one.
func (b *BoltKV) Set(key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// Delete removes the key. Missing keys are not an error.
func (b *BoltKV) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("storage: cannot delete %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key.
func (b *BoltKV) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list keys: %w", err)
	}
	return keys, nil
}

// Clear drops and recreates the bucket, freeing its pages for reuse.
func (b *BoltKV) Clear() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("storage: cannot clear store: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (b *BoltKV) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("storage: cannot close data file: %w", err)
	}
	return nil
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot resolve home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
