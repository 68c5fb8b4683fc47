package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/benmeehan/fleetops/pkg/encryption"
	"github.com/benmeehan/fleetops/pkg/file"
)

// Storage is the persisted key/value backend of a session.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

// MemoryStorage keeps session values for the lifetime of the process.
type MemoryStorage struct {
	values cmap.ConcurrentMap[string, string]
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: cmap.New[string]()}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	return m.values.Get(key)
}

func (m *MemoryStorage) Set(key, value string) error {
	m.values.Set(key, value)
	return nil
}

func (m *MemoryStorage) Delete(keys ...string) error {
	for _, key := range keys {
		m.values.Remove(key)
	}
	return nil
}

// FileStorage persists session values to a single encrypted JSON file.
type FileStorage struct {
	path              string
	fileOps           file.FileOperations
	encryptionManager encryption.EncryptionManagerInterface

	mu     sync.RWMutex
	values map[string]string
}

// NewFileStorage loads the session file at path. A missing or empty file yields an empty session.
func NewFileStorage(path string, fileOps file.FileOperations, encryptionManager encryption.EncryptionManagerInterface) (*FileStorage, error) {
	fs := &FileStorage{
		path:              path,
		fileOps:           fileOps,
		encryptionManager: encryptionManager,
		values:            make(map[string]string),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStorage) load() error {
	data, err := f.fileOps.ReadFileRaw(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	plaintext, err := f.encryptionManager.Decrypt(data)
	if err != nil {
		return fmt.Errorf("failed to decrypt session file: %w", err)
	}

	if err := json.Unmarshal(plaintext, &f.values); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return nil
}

// persist must be called with mu held.
func (f *FileStorage) persist() error {
	plaintext, err := json.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	ciphertext, err := f.encryptionManager.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	return f.fileOps.WriteFileRaw(f.path, ciphertext)
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Set and Delete only keep the in-memory change once it has been written to
// disk; on a persist error the previous values are restored.
func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	previous, existed := f.values[key]
	f.values[key] = value
	if err := f.persist(); err != nil {
		if existed {
			f.values[key] = previous
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileStorage) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	removed := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := f.values[key]; ok {
			removed[key] = v
			delete(f.values, key)
		}
	}
	if err := f.persist(); err != nil {
		for key, v := range removed {
			f.values[key] = v
		}
		return err
	}
	return nil
}
