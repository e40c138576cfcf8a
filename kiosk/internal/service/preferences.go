package service

import (
	"errors"
	"fmt"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"
	"menugenius/kiosk/internal/storage"

	"go.uber.org/zap"
)

type Preferences struct {
	store    storage.KV
	logger   *zap.Logger
	language *state.Cell[string]
}

func NewPreferences(store storage.KV, logger *zap.Logger) *Preferences {
	code := domain.DefaultLanguage
	var stored string
	err := storage.GetJSON(store, storage.KeyLanguage, &stored)
	switch {
	case err == nil:
		if _, ok := domain.LookupLanguage(stored); ok {
			code = stored
		}
	case !errors.Is(err, storage.ErrNotFound):
		logger.Warn("failed to load language preference", zap.Error(err))
	}
	return &Preferences{store: store, logger: logger, language: state.NewCell(code)}
}

func (p *Preferences) SelectedLanguage() string {
	return p.language.Get()
}

func (p *Preferences) LanguageStream() state.Observable[string] {
	return p.language
}

func (p *Preferences) Languages() []domain.Language {
	return append([]domain.Language(nil), domain.SupportedLanguages...)
}

func (p *Preferences) SetLanguage(code string) error {
	if _, ok := domain.LookupLanguage(code); !ok {
		return fmt.Errorf("%w: unsupported language %q", domain.ErrValidation, code)
	}
	if err := storage.SetJSON(p.store, storage.KeyLanguage, code); err != nil {
		p.logger.Warn("failed to persist language preference", zap.Error(err))
	}
	p.language.Set(code)
	return nil
}
