package domain

import (
	"errors"
	"fmt"
)

// Artifact names the output a failure relates to.
type Artifact string

const (
	ArtifactSQL    Artifact = "sql"
	ArtifactIDList Artifact = "id list"
)

// OutputError is returned when an output artifact cannot be written.
// It wraps the underlying I/O error.
type OutputError struct {
	Artifact Artifact
	Path     string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("writing %s output %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// ErrContainerNotFound is returned when a loaded container id does not exist.
var ErrContainerNotFound = errors.New("container not found")
