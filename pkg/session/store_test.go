package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/fleetops/pkg/encryption"
	"github.com/benmeehan/fleetops/pkg/file"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	store := NewStore(storage, zerolog.Nop())
	store.SetClock(func() time.Time { return fixedNow })
	return store, storage
}

func fillAllKeys(t *testing.T, storage Storage, token string) {
	t.Helper()
	require.NoError(t, storage.Set(KeyToken, token))
	require.NoError(t, storage.Set(KeyUser, `{"id":1}`))
	require.NoError(t, storage.Set(KeyCompany, `{"id":2}`))
	require.NoError(t, storage.Set(KeyTempToken, tokenExpiringAt(fixedNow.Unix()+3600)))
	require.NoError(t, storage.Set(KeyTempUser, `{"id":1}`))
}

func TestStore_ActiveToken_PrefersFinal(t *testing.T) {
	store, storage := newTestStore(t)

	_, ok := store.ActiveToken()
	assert.False(t, ok)

	require.NoError(t, storage.Set(KeyTempToken, "temp"))
	token, ok := store.ActiveToken()
	assert.True(t, ok)
	assert.Equal(t, "temp", token)

	require.NoError(t, storage.Set(KeyToken, "final"))
	token, ok = store.ActiveToken()
	assert.True(t, ok)
	assert.Equal(t, "final", token)
}

func TestStore_AuthHeader_Valid(t *testing.T) {
	store, storage := newTestStore(t)
	token := tokenExpiringAt(fixedNow.Unix() + 3600)
	require.NoError(t, storage.Set(KeyToken, token))

	value, ok := store.AuthHeader()
	assert.True(t, ok)
	assert.Equal(t, "Bearer "+token, value)
}

func TestStore_AuthHeader_ExpiredClearsEverything(t *testing.T) {
	store, storage := newTestStore(t)
	fillAllKeys(t, storage, tokenExpiringAt(fixedNow.Unix()-10))

	value, ok := store.AuthHeader()
	assert.False(t, ok)
	assert.Empty(t, value)

	for _, key := range AllKeys {
		_, present := storage.Get(key)
		assert.False(t, present, "key %s should be cleared", key)
	}
}

func TestStore_AuthHeader_TemporaryFallback(t *testing.T) {
	store, storage := newTestStore(t)
	temp := tokenExpiringAt(fixedNow.Unix() + 60)
	require.NoError(t, storage.Set(KeyTempToken, temp))

	value, ok := store.AuthHeader()
	assert.True(t, ok)
	assert.Equal(t, "Bearer "+temp, value)
}

func TestStore_AuthHeader_ConcurrentCleanup(t *testing.T) {
	store, storage := newTestStore(t)
	fillAllKeys(t, storage, "garbage")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := store.AuthHeader()
			assert.False(t, ok)
		}()
	}
	wg.Wait()

	for _, key := range AllKeys {
		_, present := storage.Get(key)
		assert.False(t, present)
	}
}

func TestStore_SaveTemporaryThenFinal(t *testing.T) {
	store, storage := newTestStore(t)

	require.NoError(t, store.SaveTemporary("temp-token", json.RawMessage(`{"name":"Ana"}`)))
	user, ok := store.User()
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"Ana"}`, string(user))

	require.NoError(t, store.SaveFinal("final-token", json.RawMessage(`{"name":"Ana"}`), json.RawMessage(`{"id":"c1"}`)))

	_, ok = storage.Get(KeyTempToken)
	assert.False(t, ok)
	_, ok = storage.Get(KeyTempUser)
	assert.False(t, ok)

	token, _ := store.ActiveToken()
	assert.Equal(t, "final-token", token)
	company, ok := store.Company()
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"c1"}`, string(company))

	assert.ErrorIs(t, store.SaveFinal("", nil, nil), ErrNoToken)
	assert.ErrorIs(t, store.SaveTemporary("", nil), ErrNoToken)
}

func TestStore_Clear(t *testing.T) {
	store, storage := newTestStore(t)
	fillAllKeys(t, storage, "token")

	require.NoError(t, store.Clear())
	_, ok := store.ActiveToken()
	assert.False(t, ok)
}

func TestFileStorage_PersistsEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	em, err := encryption.NewEncryptionManager(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	fileOps := file.NewFileService()

	fs, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	require.NoError(t, fs.Set(KeyToken, "secret-token"))
	require.NoError(t, fs.Set(KeyUser, `{"id":1}`))

	raw, err := fileOps.ReadFileRaw(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	reloaded, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	value, ok := reloaded.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "secret-token", value)

	require.NoError(t, reloaded.Delete(KeyToken, KeyUser))
	again, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	_, ok = again.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	em, err := encryption.NewEncryptionManager(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)

	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "absent.bin"), file.NewFileService(), em)
	require.NoError(t, err)
	_, ok := fs.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStorage_NullFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	em, err := encryption.NewEncryptionManager(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	fileOps := file.NewFileService()

	ciphertext, err := em.Encrypt([]byte("null"))
	require.NoError(t, err)
	require.NoError(t, fileOps.WriteFileRaw(path, ciphertext))

	fs, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		require.NoError(t, fs.Set(KeyToken, "token"))
	})
	value, ok := fs.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "token", value)
}

// failingWrites is a file service whose writes can be switched off.
type failingWrites struct {
	*file.FileService
	fail bool
}

func (f *failingWrites) WriteFileRaw(filePath string, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.FileService.WriteFileRaw(filePath, data)
}

func TestFileStorage_FailedWriteKeepsPreviousValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bin")
	em, err := encryption.NewEncryptionManager(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	fileOps := &failingWrites{FileService: file.NewFileService()}

	fs, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	require.NoError(t, fs.Set(KeyToken, "old"))

	fileOps.fail = true
	assert.Error(t, fs.Set(KeyToken, "new"))
	assert.Error(t, fs.Set(KeyUser, `{"id":1}`))
	assert.Error(t, fs.Delete(KeyToken))

	value, ok := fs.Get(KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "old", value, "memory matches what is on disk")
	_, ok = fs.Get(KeyUser)
	assert.False(t, ok)

	fileOps.fail = false
	reloaded, err := NewFileStorage(path, fileOps, em)
	require.NoError(t, err)
	value, _ = reloaded.Get(KeyToken)
	assert.Equal(t, "old", value)
}

func TestStore_ReplaceFinalToken(t *testing.T) {
	store, storage := newTestStore(t)

	assert.ErrorIs(t, store.ReplaceFinalToken("new"), ErrNoToken, "no final session to refresh")
	require.NoError(t, storage.Set(KeyTempToken, "temp"))
	assert.ErrorIs(t, store.ReplaceFinalToken("new"), ErrNoToken, "temporary sessions are not refreshed")

	fillAllKeys(t, storage, "old")
	require.NoError(t, store.ReplaceFinalToken("new"))

	token, ok := store.FinalToken()
	assert.True(t, ok)
	assert.Equal(t, "new", token)
	company, ok := store.Company()
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":2}`, string(company))
}
