//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// Anon returns heap memory when mmap is not available.
func Anon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}

// MapFile reads the file into memory when mmap is not available. The
// release func writes the contents back.
func MapFile(path string, size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	data := make([]byte, size)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, err
	}
	copy(data, existing)
	return data, func() error { return os.WriteFile(path, data, 0o600) }, nil
}

// Sync is a no-op without a real mapping; contents are written on release.
func Sync(data []byte) error {
	return nil
}
