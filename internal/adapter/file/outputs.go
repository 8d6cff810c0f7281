package file

import (
	"fmt"
	"os"

	"github.com/scgm/containergen/internal/domain"
)

// Compile-time check: Outputs implements domain.OutputFactory.
var _ domain.OutputFactory = Outputs{}

// Outputs creates the file-backed artifacts of a run.
type Outputs struct{}

// CreateRecordWriter truncates or creates path and writes the SQL header.
func (Outputs) CreateRecordWriter(path string) (domain.RecordWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating sql file: %w", err)
	}
	w, err := NewSQLWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (Outputs) CreateIDListWriter(path string) (domain.IDListWriter, error) {
	return NewIDListWriter(path), nil
}
