package inmemdb

import (
	"context"
	"sync"

	"github.com/academiadanas/inscripciones/core/registro"
)

// FileStore keeps uploaded documents in memory, keyed by object key.
type FileStore struct {
	mutex   sync.RWMutex
	objects map[string][]byte

	// FailKeys makes Upload fail for the listed keys; used to exercise
	// partial-upload handling.
	FailKeys map[string]error
}

var _ registro.FileStore = (*FileStore)(nil)

func NewFileStore() *FileStore {
	return &FileStore{objects: make(map[string][]byte)}
}

func (fs *FileStore) Upload(_ context.Context, key, _ string, content []byte) error {
	if err, ok := fs.FailKeys[key]; ok {
		return err
	}
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	cp := make([]byte, len(content))
	copy(cp, content)
	fs.objects[key] = cp
	return nil
}

func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	delete(fs.objects, key)
	return nil
}

// Get returns a stored object, or nil when absent.
func (fs *FileStore) Get(key string) []byte {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()
	return fs.objects[key]
}

// Len reports the number of stored objects.
func (fs *FileStore) Len() int {
	fs.mutex.RLock()
	defer fs.mutex.RUnlock()
	return len(fs.objects)
}
