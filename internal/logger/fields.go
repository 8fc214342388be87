package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidateID   = "candidate_id"
	FieldCandidateName = "candidate_name"
	FieldScore         = "score"
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

// WithFields attaches fields to base. A nil base becomes a no-op logger, so
// packages can take an optional logger.
func WithFields(base *zap.Logger, fields ...zap.Field) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ForComponent names the logger after an internal component (ranking, http, ...).
func ForComponent(base *zap.Logger, component string, fields ...zap.Field) *zap.Logger {
	return WithFields(base, fields...).Named(component)
}

// CandidateFields identifies a candidate in log entries. Long names are truncated.
func CandidateFields(id, name string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidateID, Value: id},
		StringField{Key: FieldCandidateName, Value: TruncateForLog(name, 40)},
	)
}

// MatchFields is CandidateFields plus the candidate's score.
func MatchFields(id, name string, score int) []zap.Field {
	return append(CandidateFields(id, name), zap.Int(FieldScore, score))
}
