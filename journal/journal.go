// Package journal keeps a persistent history of generation runs in a
// bbolt database.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const bucketRuns = "runs"

var (
	// ErrNoRun indicates a run id that is not in the journal.
	ErrNoRun = errors.New("no such run")

	// ErrAmbiguousRun indicates an id prefix shared by several runs.
	ErrAmbiguousRun = errors.New("ambiguous run id prefix")
)

// ToolRun is the output written for one tool.
type ToolRun struct {
	Label  string `json:"label"`
	File   string `json:"file"`
	Holes  int    `json:"holes"`
	Blocks int    `json:"blocks"`
}

// Run is one journal entry.
type Run struct {
	Seq      int       `json:"-"`
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Source   string    `json:"source"`
	Output   string    `json:"output"`
	Stepping int       `json:"stepping"`
	Z0       float32   `json:"z0"`
	Z1       float32   `json:"z1"`
	Tools    []ToolRun `json:"tools"`
}

// Holes returns the total number of holes of the run.
func (r Run) Holes() int {
	n := 0
	for _, t := range r.Tools {
		n += t.Holes
	}
	return n
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Journal is a handle on the run database. It is safe for concurrent use.
type Journal struct {
	db *bolt.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends run to the journal. An empty ID is replaced by a new one
// and a zero Time by the current time. The stored run is returned.
func (j *Journal) Record(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.Time.IsZero() {
		run.Time = time.Now()
	}
	err := j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		run.Seq = int(seq)
		return b.Put(marshalSeq(seq), data)
	})
	return run, err
}

// Runs returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (j *Journal) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			run, err := unmarshalRun(k, v)
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

// Get finds a run by id or by unique id prefix of at least four
// characters.
func (j *Journal) Get(id string) (Run, error) {
	var found Run
	matches := 0
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			run, err := unmarshalRun(k, v)
			if err != nil {
				return err
			}
			if run.ID == id {
				found, matches = run, 1
				return nil
			}
			if len(id) >= 4 && strings.HasPrefix(run.ID, id) {
				found = run
				matches++
			}
		}
		return nil
	})
	switch {
	case err != nil:
		return Run{}, err
	case matches == 0:
		return Run{}, ErrNoRun
	case matches > 1:
		return Run{}, fmt.Errorf("%w: %q matches %d runs", ErrAmbiguousRun, id, matches)
	}
	return found, nil
}

func unmarshalRun(k, v []byte) (Run, error) {
	var run Run
	if err := json.Unmarshal(v, &run); err != nil {
		return Run{}, err
	}
	run.Seq = int(unmarshalSeq(k))
	return run, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
