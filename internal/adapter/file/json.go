package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scgm/containergen/internal/domain"
)

// Compile-time check: IDListWriter implements domain.IDListWriter.
var _ domain.IDListWriter = (*IDListWriter)(nil)

// IDList is the document stored in the JSON artifact.
type IDList struct {
	ContainerIDs []string `json:"container_ids"`
}

// IDListWriter writes the id list document to a file path.
type IDListWriter struct {
	path string
}

// NewIDListWriter returns a writer targeting path. Nothing is touched until
// WriteIDs is called.
func NewIDListWriter(path string) *IDListWriter {
	return &IDListWriter{path: path}
}

// WriteIDs overwrites the file with the ids, indented by two spaces.
func (w *IDListWriter) WriteIDs(_ context.Context, ids []string) error {
	data, err := MarshalIDList(ids)
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("writing id list: %w", err)
	}
	return nil
}

// MarshalIDList encodes ids in order. A nil slice encodes as [] not null.
func MarshalIDList(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(IDList{ContainerIDs: ids}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding id list: %w", err)
	}
	return data, nil
}
