package library

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/sandeepzgk/tact"
	"github.com/sandeepzgk/tact/serial"
)

const (
	cuePrefix    = "cue/"
	signalPrefix = "sig/"
)

// DBConfig configures a DB.
type DBConfig struct {
	// Path is the database directory.  Ignored when InMemory is set.
	Path string

	// InMemory keeps the database in memory only.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// Logger receives badger's own log output.  Nil silences it.
	Logger *slog.Logger
}

// DB is a Store backed by an embedded badger database.  Entries are stored
// in the binary cue encoding under "cue/<name>" and "sig/<name>".
type DB struct {
	db  *badger.DB
	log *slog.Logger
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// OpenDB opens or creates a badger-backed library.
func OpenDB(cfg DBConfig) (*DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent library")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create library %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &DB{db: db, log: log}, nil
}

// SaveCue stores c under c.Name.
func (d *DB) SaveCue(c serial.Cue) error {
	return d.put(cuePrefix, c)
}

// SaveSignal stores s under name.
func (d *DB) SaveSignal(name string, s tact.Signal) error {
	return d.put(signalPrefix, serial.Cue{Name: name, Signal: s})
}

func (d *DB) put(prefix string, c serial.Cue) error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	b, err := serial.Marshal(c, serial.Binary)
	if err != nil {
		return err
	}
	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefix+c.Name), b)
	})
	if err != nil {
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	d.log.Debug("library save", "name", c.Name, "key", prefix+c.Name)
	return nil
}

// LoadCue reads the cue stored under name.
func (d *DB) LoadCue(name string) (serial.Cue, error) {
	return d.get(cuePrefix, name)
}

// LoadSignal reads the signal stored under name.
func (d *DB) LoadSignal(name string) (tact.Signal, error) {
	c, err := d.get(signalPrefix, name)
	if err != nil {
		return tact.Signal{}, err
	}
	return c.Signal, nil
}

func (d *DB) get(prefix, name string) (serial.Cue, error) {
	if err := ValidateName(name); err != nil {
		return serial.Cue{}, err
	}
	var b []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefix + name))
		if err != nil {
			return err
		}
		b, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return serial.Cue{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return serial.Cue{}, fmt.Errorf("load %q: %w", name, err)
	}
	c, err := serial.Unmarshal(b, serial.Binary)
	if err != nil {
		return serial.Cue{}, fmt.Errorf("load %q: %w", name, err)
	}
	c.Name = name
	return c, nil
}

// List returns the cue names.
func (d *DB) List() ([]string, error) {
	return d.keys(cuePrefix)
}

// ListSignals returns the signal names.
func (d *DB) ListSignals() ([]string, error) {
	return d.keys(signalPrefix)
}

func (d *DB) keys(prefix string) ([]string, error) {
	var names []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the cue and signal stored under name.
func (d *DB) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	found := false
	err := d.db.Update(func(txn *badger.Txn) error {
		for _, prefix := range []string{cuePrefix, signalPrefix} {
			key := []byte(prefix + name)
			if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
				continue
			} else if err != nil {
				return err
			}
			found = true
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
