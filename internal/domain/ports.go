package domain

import "context"

// RecordWriter receives generated containers in generation order.
// Close finalizes the artifact and must be called exactly once.
type RecordWriter interface {
	Write(ctx context.Context, c Container) error
	Close() error
}

// IDListWriter persists the ordered list of generated container ids.
type IDListWriter interface {
	WriteIDs(ctx context.Context, ids []string) error
}

// OutputFactory opens the two artifacts of a generation run.
// Opening an existing path truncates it.
type OutputFactory interface {
	CreateRecordWriter(path string) (RecordWriter, error)
	CreateIDListWriter(path string) (IDListWriter, error)
}
