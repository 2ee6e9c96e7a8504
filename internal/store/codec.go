package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DecodeRecords decodes the content of a collection.
// Absent or malformed content decodes to an empty slice; malformed content is logged.
func DecodeRecords[T any](ctx context.Context, c Collection, data []byte) []T {
	records := make([]T, 0)
	if len(data) == 0 {
		return records
	}
	var decoded []T
	if err := json.Unmarshal(data, &decoded); err != nil {
		slog.WarnContext(ctx, "malformed collection content, treating as empty",
			slog.String("collection", string(c)), slog.String("error", err.Error()))
		return records
	}
	if decoded == nil {
		return records
	}
	return decoded
}

// EncodeRecords encodes records as the content of a collection. A nil slice encodes as [].
func EncodeRecords[T any](records []T) ([]byte, error) {
	if records == nil {
		records = make([]T, 0)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return data, nil
}

// LoadRecords loads and decodes a collection.
func LoadRecords[T any](ctx context.Context, s RecordStore, c Collection) ([]T, error) {
	data, err := s.Load(ctx, c)
	if err != nil {
		return nil, err
	}
	return DecodeRecords[T](ctx, c, data), nil
}

// SaveRecords encodes and saves a collection.
func SaveRecords[T any](ctx context.Context, s RecordStore, c Collection, records []T) error {
	data, err := EncodeRecords(records)
	if err != nil {
		return err
	}
	return s.Save(ctx, c, data)
}
