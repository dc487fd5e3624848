package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldEndpoint is the structured log field key for the backend endpoint being called.
	FieldEndpoint = "endpoint"
	// FieldListing is the structured log field key for the listing kind (posts, tutors).
	FieldListing = "listing"
	// FieldUser is the structured log field key for the signed in user's email.
	FieldUser = "user"
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
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ListingFields returns fields describing which listing and endpoint a log entry belongs to.
// Empty values are ignored to keep log entries compact when information is missing.
func ListingFields(listing, endpoint string) []zap.Field {
	return StringFields(
		StringField{Key: FieldListing, Value: listing},
		StringField{Key: FieldEndpoint, Value: endpoint},
	)
}

// WithListing attaches the listing fields to the provided logger.
// If the logger is nil, a no-op logger is created.
func WithListing(logger *zap.Logger, listing, endpoint string) *zap.Logger {
	return WithFields(logger, ListingFields(listing, endpoint)...)
}

// WithUser attaches the signed in user to the provided logger.
func WithUser(logger *zap.Logger, email string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldUser, Value: email})...)
}
