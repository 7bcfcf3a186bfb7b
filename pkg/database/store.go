// Package database provides the local package cache: catalog snapshots for
// offline start, install receipts reported by the package client, and a
// search index over the projected catalog.
package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
	"go.trai.ch/zerr"

	"pahkat/pkg/repo"
)

const (
	bucketSnapshots = "snapshots"
	bucketReceipts  = "receipts"
	bucketMeta      = "meta"

	keyLastUpdate = "last_update"
)

// ErrBucketMissing is returned when the database layout is incomplete.
var ErrBucketMissing = zerr.New("database bucket not found")

// snapshotEntry is the stored form of a loaded repository.
type snapshotEntry struct {
	Meta        repo.Meta         `json:"meta"`
	Channel     string            `json:"channel,omitempty"`
	Descriptors []repo.Descriptor `json:"descriptors"`
	SavedAt     time.Time         `json:"saved_at"`
}

// Receipt records a package the package client reports as installed.
type Receipt struct {
	Key         repo.PackageKey    `json:"key"`
	Version     string             `json:"version"`
	Target      repo.InstallTarget `json:"target,omitempty"`
	InstalledAt time.Time          `json:"installed_at,omitempty"`
}

// Store manages the package cache using BoltDB.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the package database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, zerr.With(fmt.Errorf("failed to open package database: %w", err), "path", path)
	}

	// Ensure buckets exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketSnapshots, bucketReceipts, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshots replaces the cached catalog with the given repositories.
func (s *Store) SaveSnapshots(repos []*repo.LoadedRepository) error {
	now := time.Now()

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketSnapshots)); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(bucketSnapshots))
		if err != nil {
			return err
		}
		meta := tx.Bucket([]byte(bucketMeta))

		for _, r := range repos {
			entry := snapshotEntry{
				Meta:        r.Meta(),
				Channel:     r.Channel(),
				Descriptors: r.Descriptors(),
				SavedAt:     now,
			}

			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("failed to marshal snapshot: %w", err)
			}
			if err := bucket.Put([]byte(r.URL()), data); err != nil {
				return err
			}

			if meta != nil {
				key := keyLastUpdate + ":" + r.URL()
				if err := meta.Put([]byte(key), []byte(now.Format(time.RFC3339))); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// LoadSnapshots returns the cached repositories ordered by URL. Installation
// statuses are resolved from the stored receipts.
func (s *Store) LoadSnapshots() ([]*repo.LoadedRepository, error) {
	var entries []snapshotEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketSnapshots))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, data []byte) error {
			var entry snapshotEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				return nil // Skip malformed entries
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	repos := make([]*repo.LoadedRepository, 0, len(entries))
	for _, e := range entries {
		r := repo.NewLoadedRepository(e.Meta, e.Channel, e.Descriptors)
		statuses := make(map[repo.PackageKey]repo.PackageStatus)
		for _, d := range r.Descriptors() {
			key := r.PackageKey(d)
			if st, ok := s.Status(key, d); ok {
				statuses[key] = st
			}
		}
		repos = append(repos, r.WithStatuses(statuses))
	}

	return repos, nil
}

// GetLastUpdate returns when a repository snapshot was last saved.
func (s *Store) GetLastUpdate(url string) (time.Time, error) {
	var t time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketMeta))
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(keyLastUpdate + ":" + url))
		if data == nil {
			return nil
		}

		var err error
		t, err = time.Parse(time.RFC3339, string(data))
		return err
	})

	return t, err
}

// PutReceipts stores or replaces install receipts.
func (s *Store) PutReceipts(receipts []Receipt) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketReceipts))
		if bucket == nil {
			return ErrBucketMissing
		}

		for _, r := range receipts {
			if r.Target == "" {
				r.Target = repo.TargetUser
			}
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal receipt: %w", err)
			}
			if err := bucket.Put([]byte(receiptKey(r.Key)), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteReceipt removes the receipt for a package.
func (s *Store) DeleteReceipt(key repo.PackageKey) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketReceipts))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(receiptKey(key)))
	})
}

// Receipt returns the receipt for a package, or nil.
func (s *Store) Receipt(key repo.PackageKey) (*Receipt, error) {
	var receipt *Receipt

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketReceipts))
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(receiptKey(key)))
		if data == nil {
			return nil
		}

		receipt = &Receipt{}
		return json.Unmarshal(data, receipt)
	})

	return receipt, err
}

// Receipts returns every stored receipt ordered by key.
func (s *Store) Receipts() ([]Receipt, error) {
	var receipts []Receipt

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketReceipts))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, data []byte) error {
			var r Receipt
			if err := json.Unmarshal(data, &r); err != nil {
				return nil
			}
			receipts = append(receipts, r)
			return nil
		})
	})

	return receipts, err
}

// Status implements repo.StatusProvider. A package with a receipt for the
// version of its last release is up to date; any other receipt means it
// requires an update.
func (s *Store) Status(key repo.PackageKey, d repo.Descriptor) (repo.PackageStatus, bool) {
	receipt, err := s.Receipt(key)
	if err != nil {
		return repo.PackageStatus{Status: repo.StatusError, Target: repo.TargetUser}, true
	}
	if receipt == nil {
		return repo.PackageStatus{}, false
	}

	status := repo.StatusRequiresUpdate
	if release := d.LastRelease(); release != nil && release.Version == receipt.Version {
		status = repo.StatusUpToDate
	}
	return repo.PackageStatus{Status: status, Target: receipt.Target}, true
}

// Count returns the number of cached snapshots and receipts.
func (s *Store) Count() (snapshots, receipts int, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket([]byte(bucketSnapshots)); b != nil {
			snapshots = b.Stats().KeyN
		}
		if b := tx.Bucket([]byte(bucketReceipts)); b != nil {
			receipts = b.Stats().KeyN
		}
		return nil
	})
	return snapshots, receipts, err
}

// Clear removes all cached snapshots. Receipts are kept.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketSnapshots)); err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketSnapshots))
		return err
	})
}

// receiptKey ignores the channel so a receipt survives channel switches.
func receiptKey(key repo.PackageKey) string {
	k := key
	k.Params.Channel = ""
	return k.String()
}
