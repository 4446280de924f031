package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/pslog"
)

// SessionKey is the fixed key the bearer token is stored under.
const SessionKey = "session"

// record is the on-disk form of a stored value.
type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store persists small string values to disk, one file per key.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Get reads the value stored under key. A missing key is not an error.
func (s *Store) Get(key string) (string, bool, error) {
	path := s.pathForKey(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("state load miss", "key", key)
			}
			return "", false, nil
		}
		if s.log != nil {
			s.log.Warn("state load failed", "key", key, "err", err)
		}
		return "", false, err
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		if s.log != nil {
			s.log.Warn("state load failed", "key", key, "err", err)
		}
		return "", false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "key", key)
	}
	return rec.Value, true, nil
}

// Set writes value under key, replacing any previous value atomically.
func (s *Store) Set(key, value string) error {
	path := s.pathForKey(key)
	if err := s.write(path, record{Key: key, Value: value}); err != nil {
		if s.log != nil {
			s.log.Warn("state save failed", "key", key, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("state save ok", "key", key)
	}
	return nil
}

// Remove deletes the value stored under key. Removing a missing key is a no-op.
func (s *Store) Remove(key string) error {
	path := s.pathForKey(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		if s.log != nil {
			s.log.Warn("state remove failed", "key", key, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("state remove ok", "key", key)
	}
	return nil
}

func (s *Store) write(path string, rec record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "state-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) pathForKey(key string) string {
	name := sanitize(key)
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name+".json")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
