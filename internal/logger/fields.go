package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/utils"
)

const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	// FieldRunID ties together the log lines of one recommendation request.
	FieldRunID = "run_id"
	FieldQuery = "query"

	maxQueryLength = 120
)

// WithFields attaches fields to logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields describes the language model behind a log line. Blank values
// are left out.
func CommonFields(provider, model string) []zap.Field {
	var fields []zap.Field
	fields = appendString(fields, FieldProvider, provider)
	fields = appendString(fields, FieldModel, model)
	return fields
}

// WithCommonFields attaches the provider and model fields to logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// WithRequest attaches the run id and a shortened single-line query of one
// recommendation request. A blank query is left out, as for filter requests.
func WithRequest(logger *zap.Logger, runID, query string) *zap.Logger {
	var fields []zap.Field
	fields = appendString(fields, FieldRunID, runID)
	fields = appendString(fields, FieldQuery, utils.TruncateForLog(query, maxQueryLength))
	return WithFields(logger, fields...)
}

func appendString(fields []zap.Field, key, value string) []zap.Field {
	value = strings.TrimSpace(value)
	if value == "" {
		return fields
	}
	return append(fields, zap.String(key, value))
}
