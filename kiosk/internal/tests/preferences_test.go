package tests

import (
	"errors"
	"testing"

	"menugenius/domain"
	"menugenius/kiosk/internal/mocks"
	"menugenius/kiosk/internal/service"
	"menugenius/kiosk/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPreferences_DefaultsAndPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	prefs := service.NewPreferences(store, zap.NewNop())
	assert.Equal(t, "en", prefs.SelectedLanguage())
	assert.Len(t, prefs.Languages(), 10)

	var seen []string
	prefs.LanguageStream().Subscribe(func(code string) { seen = append(seen, code) })

	require.NoError(t, prefs.SetLanguage("ja"))
	assert.Equal(t, []string{"en", "ja"}, seen)

	restored := service.NewPreferences(store, zap.NewNop())
	assert.Equal(t, "ja", restored.SelectedLanguage())
}

func TestPreferences_RejectsUnsupportedLanguage(t *testing.T) {
	store := storage.NewMemoryStore()
	prefs := service.NewPreferences(store, zap.NewNop())

	assert.ErrorIs(t, prefs.SetLanguage("xx"), domain.ErrValidation)
	assert.Equal(t, "en", prefs.SelectedLanguage())
	_, err := store.Get(storage.KeyLanguage)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPreferences_IgnoresUnknownStoredCode(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, storage.SetJSON(store, storage.KeyLanguage, "klingon"))

	assert.Equal(t, "en", service.NewPreferences(store, zap.NewNop()).SelectedLanguage())
}

func TestPreferences_PersistFailureStillSwitches(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := mocks.NewKV(t)
	kv.On("Get", storage.KeyLanguage).Return(nil, storage.ErrNotFound).Once()
	kv.On("Set", storage.KeyLanguage, mock.Anything).Return(errors.New("read-only")).Once()

	prefs := service.NewPreferences(kv, zap.New(core))
	require.NoError(t, prefs.SetLanguage("de"))

	assert.Equal(t, "de", prefs.SelectedLanguage())
	assert.Equal(t, 1, logs.FilterMessage("failed to persist language preference").Len())
}
