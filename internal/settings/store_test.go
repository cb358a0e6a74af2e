package settings

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	"github.com/cristianadrielbraun/qrdesigner/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKV struct {
	mock.Mock
}

func (m *MockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockKV) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockKV) Close() error { return nil }

func sampleSettings() design.Settings {
	s := design.Defaults()
	s.URL = "https://example.com"
	s.Theme = design.ThemeLight
	s.QRSize = 300
	s.QuietZone = 8
	s.CornerRoundingPercent = 15
	s.LogoSizePercent = 25
	s.LogoImageData = "data:image/png;base64,iVBORw0KGgo="
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer kv.Close()

	store := NewStore(kv, 1<<20)
	want := sampleSettings()

	require.NoError(t, store.Save(ctx, "client-1", want))
	assert.Equal(t, want, store.Load(ctx, "client-1"))
}

func TestStore_LoadMissingReturnsDefaults(t *testing.T) {
	store := NewStore(storage.NewMemoryKV(), 1<<20)
	assert.Equal(t, design.Defaults(), store.Load(context.Background(), "nobody"))
}

func TestStore_SaveOverwritesWholeRecord(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryKV(), 1<<20)

	require.NoError(t, store.Save(ctx, "c", sampleSettings()))
	second := design.Defaults()
	second.URL = "https://other.example"
	require.NoError(t, store.Save(ctx, "c", second))

	got := store.Load(ctx, "c")
	assert.Equal(t, second, got)
	assert.False(t, got.HasLogo())
}

func TestStore_CorruptRecordIsWiped(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, Key("c"), "{broken"))

	store := NewStore(kv, 1<<20)
	assert.Equal(t, design.Defaults(), store.Load(ctx, "c"))

	_, err := kv.Get(ctx, Key("c"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_TrailingGarbageIsWiped(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, Key("c"), `{"url":"https://a.example"}}garbage`))

	store := NewStore(kv, 1<<20)
	assert.Equal(t, design.Defaults(), store.Load(ctx, "c"))

	_, err := kv.Get(ctx, Key("c"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ReadErrorReturnsDefaultsWithoutWipe(t *testing.T) {
	kv := new(MockKV)
	kv.On("Get", mock.Anything, Key("c")).Return("", errors.New("connection reset"))

	store := NewStore(kv, 1<<20)
	assert.Equal(t, design.Defaults(), store.Load(context.Background(), "c"))

	kv.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	kv.AssertExpectations(t)
}

func TestStore_SaveQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	store := NewStore(kv, 512)

	require.NoError(t, store.Save(ctx, "c", design.Defaults()))

	big := sampleSettings()
	big.LogoImageData = "data:image/png;base64," + strings.Repeat("A", 1024)
	err := store.Save(ctx, "c", big)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	assert.Equal(t, design.Defaults(), store.Load(ctx, "c"))
}

func TestStore_SaveBackendError(t *testing.T) {
	kv := new(MockKV)
	kv.On("Set", mock.Anything, Key("c"), mock.AnythingOfType("string")).Return(errors.New("disk full"))

	store := NewStore(kv, 1<<20)
	err := store.Save(context.Background(), "c", design.Defaults())
	assert.ErrorContains(t, err, "disk full")
	kv.AssertExpectations(t)
}
