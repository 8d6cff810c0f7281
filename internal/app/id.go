package app

import (
	"io"

	"github.com/google/uuid"
)

// generateID produces a version 4 UUID in canonical hyphenated form.
// Random bytes come from r so a seeded source yields reproducible ids.
func generateID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
