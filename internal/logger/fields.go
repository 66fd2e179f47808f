package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAsset is the structured log field key for the asset being ranked for.
	FieldAsset = "asset_id"
	// FieldLocale is the structured log field key for the name collation locale.
	FieldLocale = "ranking_locale"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// MatchFields describes a ranking run. Empty values are left out.
func MatchFields(assetID, locale string) []zap.Field {
	return StringFields(
		StringField{Key: FieldAsset, Value: assetID},
		StringField{Key: FieldLocale, Value: locale},
	)
}

func WithMatchFields(logger *zap.Logger, assetID, locale string) *zap.Logger {
	return WithFields(logger, MatchFields(assetID, locale)...)
}
