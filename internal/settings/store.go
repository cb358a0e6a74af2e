// Package settings loads and saves a client's design record.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/design"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/cristianadrielbraun/qrdesigner/internal/storage"
)

// KeyPrefix namespaces design records in the backing store.
const KeyPrefix = "qrGeneratorSettings"

// ErrQuotaExceeded is returned by Save when the encoded record is larger than
// the configured limit. The previously stored record is left in place.
var ErrQuotaExceeded = errors.New("settings record exceeds storage quota")

// Store persists one design record per client.
type Store struct {
	kv             storage.KV
	maxRecordBytes int
}

func NewStore(kv storage.KV, maxRecordBytes int) *Store {
	return &Store{kv: kv, maxRecordBytes: maxRecordBytes}
}

// Key returns the storage key for a client.
func Key(clientID string) string {
	return KeyPrefix + ":" + clientID
}

// Load returns the client's saved design, or defaults. It never fails: a
// record that cannot be parsed is logged, removed from storage and replaced
// by defaults.
func (s *Store) Load(ctx context.Context, clientID string) design.Settings {
	key := Key(clientID)
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return design.Defaults()
	}
	if err != nil {
		appLogger.CtxError(ctx, constant.MsgSettingsReadError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxSettings,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeSettingsRead,
				Message: err.Error(),
				Type:    constant.ErrTypeSettings,
			},
			Data: map[string]interface{}{constant.DataKey: key},
		})
		return design.Defaults()
	}

	settings, err := design.UnmarshalRecord([]byte(raw))
	if err != nil {
		appLogger.CtxWarn(ctx, constant.MsgSettingsCorrupt, appLogger.LoggerInfo{
			ContextFunction: constant.CtxSettings,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeSettingsCorrupt,
				Message: err.Error(),
				Type:    constant.ErrTypeSettings,
			},
			Data: map[string]interface{}{constant.DataKey: key},
		})
		if delErr := s.kv.Delete(ctx, key); delErr != nil {
			appLogger.CtxError(ctx, constant.MsgSettingsWipeError, appLogger.LoggerInfo{
				ContextFunction: constant.CtxSettings,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeSettingsWipe,
					Message: delErr.Error(),
					Type:    constant.ErrTypeSettings,
				},
				Data: map[string]interface{}{constant.DataKey: key},
			})
		}
		return design.Defaults()
	}
	return settings
}

// Save writes the complete record, replacing any previous one.
func (s *Store) Save(ctx context.Context, clientID string, settings design.Settings) error {
	key := Key(clientID)
	data, err := design.MarshalRecord(settings.Normalize())
	if err != nil {
		return err
	}

	if s.maxRecordBytes > 0 && len(data) > s.maxRecordBytes {
		appLogger.CtxWarn(ctx, constant.MsgSettingsTooLarge, appLogger.LoggerInfo{
			ContextFunction: constant.CtxSettings,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeSettingsQuota,
				Message: ErrQuotaExceeded.Error(),
				Type:    constant.ErrTypeSettings,
			},
			Data: map[string]interface{}{
				constant.DataKey:   key,
				constant.DataBytes: len(data),
				constant.DataLimit: s.maxRecordBytes,
			},
		})
		return fmt.Errorf("%w: %d > %d bytes", ErrQuotaExceeded, len(data), s.maxRecordBytes)
	}

	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		appLogger.CtxError(ctx, constant.MsgSettingsSaveError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxSettings,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeSettingsWrite,
				Message: err.Error(),
				Type:    constant.ErrTypeSettings,
			},
			Data: map[string]interface{}{constant.DataKey: key},
		})
		return fmt.Errorf("save settings: %w", err)
	}

	appLogger.CtxInfo(ctx, constant.MsgSettingsSaved, appLogger.LoggerInfo{
		ContextFunction: constant.CtxSettings,
		Data: map[string]interface{}{
			constant.DataKey:   key,
			constant.DataBytes: len(data),
		},
	})
	return nil
}
