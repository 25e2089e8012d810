// Package store persists slider state between runs in a bbolt file, keyed
// by slider id.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

var sliderBucket = []byte("sliders")

// ErrNotFound is returned by Load when no state was saved for an id.
var ErrNotFound = errors.New("slider state not found")

// Store is a bbolt backed table of encoded engine.State values.
type Store struct {
	db     *bbolt.DB
	logger *game_log.Logger
}

// Open opens or creates the database at path.
func Open(path string, logger *game_log.Logger) (*Store, error) {
	if logger == nil {
		logger = game_log.Discard()
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open state db %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(sliderBucket); err != nil {
			return errors.Wrap(err, "create bucket")
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Infof("[STORE] opened %s", path)
	return &Store{db: db, logger: logger}, nil
}

// Save writes st under id, replacing what was there.
func (s *Store) Save(id uuid.UUID, st engine.State) error {
	data, err := st.Encode()
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sliderBucket).Put(id[:], data)
	})
	if err != nil {
		return errors.Wrapf(err, "save state %s", id)
	}
	s.logger.Debugf("[STORE] saved %s (%d bytes)", id, len(data))
	return nil
}

// Load reads the state saved under id. A record that fails to decode
// yields engine.DefaultState together with the decode error.
func (s *Store) Load(id uuid.UUID) (engine.State, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(sliderBucket).Get(id[:])
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return engine.DefaultState(), err
	}
	st, err := engine.DecodeState(data)
	if err != nil {
		s.logger.Errorf("[STORE] state %s unreadable: %v", id, err)
	}
	return st, err
}

// Delete removes the state saved under id. Deleting a missing id is not
// an error.
func (s *Store) Delete(id uuid.UUID) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sliderBucket).Delete(id[:])
	})
	return errors.Wrapf(err, "delete state %s", id)
}

// IDs lists every slider with saved state.
func (s *Store) IDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(sliderBucket).ForEach(func(k, _ []byte) error {
			id, err := uuid.FromBytes(k)
			if err != nil {
				return errors.Wrap(err, "bad key")
			}
			ids = append(ids, id)
			return nil
		})
	})
	return ids, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Saver is the part of Store AutoSave needs.
type Saver interface {
	Save(id uuid.UUID, st engine.State) error
}

// Bind restores sl from s if a record exists, then saves the selection
// whenever either thumb commits a change. An unreadable record restores
// the defaults and is overwritten on the next change.
func Bind(s *Store, sl *engine.Slider) {
	st, err := s.Load(sl.ID())
	if !errors.Is(err, ErrNotFound) {
		sl.RestoreState(st)
	}
	AutoSave(s, sl, s.logger)
}

// AutoSave subscribes sv to the committed changes of sl.
func AutoSave(sv Saver, sl *engine.Slider, logger *game_log.Logger) {
	save := func() {
		if err := sv.Save(sl.ID(), sl.SaveState(nil)); err != nil {
			logger.Errorf("[STORE] %v", err)
		}
	}
	sl.OnLowerValueChanged(save)
	sl.OnUpperValueChanged(save)
}
