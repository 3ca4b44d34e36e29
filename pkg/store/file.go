// Package store persists configuration values.
package store

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates the key has never been stored.
var ErrNotFound = errors.New("store: key not found")

// File keeps integer values in a YAML document, rewritten atomically
// on every Store.
type File struct {
	Path string

	lock sync.Mutex
}

// NewFile creates a File store at path. The file is created on first Store.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load implements hal.ConfigStore.
func (f *File) Load(key string) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	vals, err := f.read()
	if err != nil {
		return 0, err
	}
	val, ok := vals[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return val, nil
}

// Store implements hal.ConfigStore.
func (f *File) Store(key string, val int) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	vals, err := f.read()
	if err != nil {
		return err
	}
	vals[key] = val
	return f.write(vals)
}

func (f *File) read() (map[string]int, error) {
	vals := make(map[string]int)
	data, err := ioutil.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return vals, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &vals); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", f.Path, err)
	}
	if vals == nil {
		vals = make(map[string]int)
	}
	return vals, nil
}

func (f *File) write(vals map[string]int) error {
	data, err := yaml.Marshal(vals)
	if err != nil {
		return err
	}
	tmp, err := ioutil.TempFile(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
