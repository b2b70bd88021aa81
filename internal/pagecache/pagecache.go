// Package pagecache keeps raw article HTML in a BadgerDB keyed by URL, so
// parse logic can be re-run on retried articles without another download.
package pagecache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store is a badger-backed page cache.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the page cache at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // silence default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open page cache: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a page cache that never touches disk.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory page cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Put stores the raw page body fetched from url.
func (s *Store) Put(url string, body []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(url), body)
	})
}

// Get returns the cached page body for url, reporting whether one exists.
func (s *Store) Get(url string) ([]byte, bool, error) {
	var body []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(url))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
