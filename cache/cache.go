package cache

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type cacheKey struct {
	h64  uint64
	h64a uint64
}

// Storage is a directory of JSON (or raw) files addressed by a formatted key.
// A zero ttl never expires.
type Storage struct {
	dir string
	ttl time.Duration

	savingLock sync.RWMutex
	saving     map[cacheKey]struct{}
}

// NewStorage creates dir. When the fingerprint of versionData differs from
// the one stored in dir, the directory is cleared first.
func NewStorage(dir string, ttl time.Duration, versionData ...[]byte) (*Storage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(versionData) > 0 {
		if err := cleanUpWithHash(dir, versionData...); err != nil {
			return nil, err
		}
	}

	return &Storage{
		dir:    dir,
		ttl:    ttl,
		saving: make(map[cacheKey]struct{}, 32),
	}, nil
}

func (s *Storage) lock(h cacheKey) bool {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	_, ok := s.saving[h]
	if !ok {
		s.saving[h] = struct{}{}
	}
	return !ok
}
func (s *Storage) unlock(h cacheKey) {
	s.savingLock.Lock()
	defer s.savingLock.Unlock()

	delete(s.saving, h)
}
func (s *Storage) checkSkip(h cacheKey) bool {
	s.savingLock.RLock()
	defer s.savingLock.RUnlock()

	_, ok := s.saving[h]
	return ok
}

func (s *Storage) key(format string, args ...interface{}) (cacheKey, string) {
	h := fnv.New64a()
	fmt.Fprintf(h, format, args...)

	ha := fnv.New64()
	fmt.Fprintf(ha, format, args...)

	hash := cacheKey{
		h64:  h.Sum64(),
		h64a: ha.Sum64(),
	}
	return hash, filepath.Join(s.dir, fmt.Sprintf("%016x-%016x", hash.h64, hash.h64a))
}

func (s *Storage) open(path string) (*os.File, bool) {
	fs, err := os.Open(path)
	if err != nil {
		return nil, false
	}

	if s.ttl > 0 {
		fi, err := fs.Stat()
		if err != nil || time.Since(fi.ModTime()) > s.ttl {
			fs.Close()
			os.Remove(path)
			return nil, false
		}
	}
	return fs, true
}

func (s *Storage) save(path string, hash cacheKey, write func(w io.Writer) error) bool {
	if !s.lock(hash) {
		return false
	}
	defer s.unlock(hash)

	fs, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cache create failed")
		return false
	}

	err = write(fs)
	fs.Close()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cache write failed")
		os.Remove(path)
		return false
	}

	return true
}

// Save stores r as JSON under the formatted key.
func (s *Storage) Save(r interface{}, format string, args ...interface{}) bool {
	hash, path := s.key(format, args...)

	return s.save(path+".json", hash, func(w io.Writer) error {
		return jsoniter.NewEncoder(w).Encode(r)
	})
}

// Load decodes the JSON stored under the formatted key into r.
func (s *Storage) Load(r interface{}, format string, args ...interface{}) bool {
	hash, path := s.key(format, args...)
	if s.checkSkip(hash) {
		return false
	}

	fs, ok := s.open(path + ".json")
	if !ok {
		return false
	}
	defer fs.Close()

	err := jsoniter.NewDecoder(fs).Decode(r)
	if err != nil {
		log.Warn().Err(err).Str("path", fs.Name()).Msg("cache decode failed")
		return false
	}
	return true
}

func (s *Storage) SaveRaw(data []byte, format string, args ...interface{}) bool {
	hash, path := s.key(format, args...)

	return s.save(path+".raw", hash, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}

// LoadRaw appends the stored bytes to buf.
func (s *Storage) LoadRaw(buf *bytes.Buffer, format string, args ...interface{}) bool {
	hash, path := s.key(format, args...)
	if s.checkSkip(hash) {
		return false
	}

	fs, ok := s.open(path + ".raw")
	if !ok {
		return false
	}
	defer fs.Close()

	n := buf.Len()
	_, err := buf.ReadFrom(fs)
	if err != nil {
		buf.Truncate(n)
		return false
	}
	return true
}
