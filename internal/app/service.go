package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scgm/containergen/internal/domain"
)

// Defaults for a generation run.
const (
	DefaultRecords  = 10500
	DefaultSQLPath  = "containers_data.sql"
	DefaultJSONPath = "containers_id_list.json"
)

// Result summarizes a completed run. First and Last are the first and last
// generated containers; both are zero when no records were produced.
type Result struct {
	Records  int
	IDs      []string
	First    domain.Container
	Last     domain.Container
	SQLPath  string
	JSONPath string
}

// FixtureService runs one generation pass: it streams containers into the
// SQL artifact and then writes the id list.
type FixtureService struct {
	gen     *Generator
	outputs domain.OutputFactory
	logger  *slog.Logger
}

// NewFixtureService creates a service with the given generator and outputs.
func NewFixtureService(gen *Generator, outputs domain.OutputFactory, logger *slog.Logger) *FixtureService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FixtureService{
		gen:     gen,
		outputs: outputs,
		logger:  logger,
	}
}

// Generate writes n containers as a SQL insert script to sqlPath and their
// ids to jsonPath. Existing files are overwritten. Any I/O failure aborts the
// run; files already written are left as they are.
func (s *FixtureService) Generate(ctx context.Context, n int, sqlPath, jsonPath string) (Result, error) {
	s.logger.InfoContext(ctx, fmt.Sprintf("Generating %d SQL INSERT statements...", n))

	records, err := s.outputs.CreateRecordWriter(sqlPath)
	if err != nil {
		return Result{}, &domain.OutputError{Artifact: domain.ArtifactSQL, Path: sqlPath, Err: err}
	}

	res, err := s.stream(ctx, n, records)
	if err != nil {
		err = errors.Join(err, records.Close())
		return Result{}, &domain.OutputError{Artifact: domain.ArtifactSQL, Path: sqlPath, Err: err}
	}
	ids := res.IDs

	if err := records.Close(); err != nil {
		return Result{}, &domain.OutputError{Artifact: domain.ArtifactSQL, Path: sqlPath, Err: err}
	}
	s.logger.InfoContext(ctx, fmt.Sprintf("Successfully generated SQL script and saved to '%s'.", sqlPath),
		"records", len(ids),
	)

	idList, err := s.outputs.CreateIDListWriter(jsonPath)
	if err != nil {
		return Result{}, &domain.OutputError{Artifact: domain.ArtifactIDList, Path: jsonPath, Err: err}
	}
	if err := idList.WriteIDs(ctx, ids); err != nil {
		return Result{}, &domain.OutputError{Artifact: domain.ArtifactIDList, Path: jsonPath, Err: err}
	}
	s.logger.InfoContext(ctx, fmt.Sprintf("Successfully generated container IDs JSON and saved to '%s'.", jsonPath))

	res.Records = len(ids)
	res.SQLPath = sqlPath
	res.JSONPath = jsonPath
	return res, nil
}

// stream generates n containers into w, collecting their ids in order
// along with the first and last container.
func (s *FixtureService) stream(ctx context.Context, n int, w domain.RecordWriter) (Result, error) {
	res := Result{IDs: make([]string, 0, max(n, 0))}
	for i := 0; i < n; i++ {
		c, err := s.gen.Next()
		if err != nil {
			return Result{}, err
		}
		res.IDs = append(res.IDs, c.ID)
		if i == 0 {
			res.First = c
		}
		res.Last = c

		if err := w.Write(ctx, c); err != nil {
			return Result{}, fmt.Errorf("writing container %d: %w", i, err)
		}
	}
	return res, nil
}
