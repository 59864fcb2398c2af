package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// FileBackend stores the object set as one JSON object mapping
// "ClassName.id" to the object's record.
type FileBackend struct {
	path string
}

// NewFileBackend creates a FileBackend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the file. A missing or empty file is an empty set.
func (b *FileBackend) Load(_ context.Context) ([]*model.Record, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("failed to parse %s: expected JSON object", b.path)
	}

	var records []*model.Record
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
		}
		rec := model.NewRecord()
		if err := dec.Decode(rec); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Store rewrites the file with records. The file is replaced atomically.
func (b *FileBackend) Store(_ context.Context, records []*model.Record) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range records {
		if i > 0 {
			buf.WriteString(", ")
		}
		class, _ := rec.Get(model.FieldClassName)
		id, _ := rec.Get(model.FieldID)
		key, err := json.Marshal(Key(fmt.Sprint(class), fmt.Sprint(id)))
		if err != nil {
			return err
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	buf.WriteByte('}')

	dir := filepath.Dir(b.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".hbnb-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Store.
func (b *FileBackend) Close() error {
	return nil
}
