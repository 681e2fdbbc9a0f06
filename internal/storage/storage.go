package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key prefixes
const (
	prefixPosition = "pos:"
	prefixSession  = "session:"
)

// AnalysisRecord is the durable counterpart of a transposition-table
// entry: the best line found for one position, keyed by its fingerprint.
type AnalysisRecord struct {
	FEN      string    `json:"fen"`
	BestMove string    `json:"best_move"`
	Score    int       `json:"score"`
	Depth    int       `json:"depth"`
	Bound    string    `json:"bound"`
	Session  string    `json:"session"`
	Analyzed time.Time `json:"analyzed"`
}

// Session identifies one analysis run. Records written during the run
// carry its ID.
type Session struct {
	ID        string    `json:"id"`
	Started   time.Time `json:"started"`
	HashMB    int       `json:"hash_mb"`
	Positions int       `json:"positions"`
}

// AnalysisStore wraps BadgerDB for persistent analysis storage.
type AnalysisStore struct {
	db *badger.DB
}

// Open opens (or creates) a store in the given directory.
func Open(dir string) (*AnalysisStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &AnalysisStore{db: db}, nil
}

// OpenDefault opens the store in the platform data directory.
func OpenDefault() (*AnalysisStore, error) {
	dir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database.
func (s *AnalysisStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// positionKey builds the byte key for a position fingerprint.
func positionKey(key uint64) []byte {
	k := make([]byte, len(prefixPosition)+8)
	copy(k, prefixPosition)
	binary.BigEndian.PutUint64(k[len(prefixPosition):], key)
	return k
}

// PutAnalysis stores the analysis record for a position fingerprint,
// replacing any previous record.
func (s *AnalysisStore) PutAnalysis(key uint64, rec *AnalysisRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(positionKey(key), data)
	})
}

// GetAnalysis loads the analysis record for a position fingerprint.
// The second return value is false when no record exists.
func (s *AnalysisStore) GetAnalysis(key uint64) (*AnalysisRecord, bool, error) {
	rec := &AnalysisRecord{}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(positionKey(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})

	if !found {
		return nil, false, err
	}
	return rec, true, err
}

// BeginSession creates and persists a new analysis session.
func (s *AnalysisStore) BeginSession(hashMB int) (*Session, error) {
	sess := &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
		HashMB:  hashMB,
	}
	if err := s.SaveSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SaveSession persists the session record.
func (s *AnalysisStore) SaveSession(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixSession+sess.ID), data)
	})
}

// GetSession loads a session by ID.
func (s *AnalysisStore) GetSession(id string) (*Session, bool, error) {
	sess := &Session{}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixSession + id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, sess)
		})
	})

	if !found {
		return nil, false, err
	}
	return sess, true, err
}
