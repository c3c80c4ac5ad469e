package cache

import (
	"encoding/binary"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// cleanUpWithHash empties dir when the fingerprint of data changed since
// the last run.
func cleanUpWithHash(dir string, data ...[]byte) error {
	newHash := hashData(data...)

	hashFile := filepath.Join(dir, "hash")

	b, err := os.ReadFile(hashFile)
	if err == nil && len(b) == 4 && binary.BigEndian.Uint32(b) == newHash {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.WithStack(err)
	}

	b = make([]byte, 4)
	binary.BigEndian.PutUint32(b, newHash)
	return errors.WithStack(os.WriteFile(hashFile, b, 0600))
}

func hashData(data ...[]byte) uint32 {
	h := fnv.New32a()
	for _, d := range data {
		h.Write(d)
		h.Write([]byte{0})
	}
	return h.Sum32()
}
