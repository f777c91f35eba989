package pipeline

import (
	"github.com/nconklindev/datasweep/internal/converter"
	"github.com/nconklindev/datasweep/internal/logging"
	"github.com/nconklindev/datasweep/internal/types"
)

// Result is the outcome of loading one file. Exactly one of Session and Err
// is set.
type Result struct {
	Name    string
	Session *Session
	Err     error
}

// LoadBatch opens every blob in order. A file that fails is reported in its
// Result and never stops the others.
func LoadBatch(blobs []types.Blob, opts Options) []Result {
	results := make([]Result, 0, len(blobs))
	for i, blob := range blobs {
		s, err := Open(i, blob, opts)
		results = append(results, Result{Name: blob.Name, Session: s, Err: err})
	}
	return results
}

// LoadFiles reads and opens files from disk. offset is added to session
// indexes so files added later keep unique IDs.
func LoadFiles(paths []string, offset int, opts Options) []Result {
	results := make([]Result, 0, len(paths))
	for i, path := range paths {
		blob, err := converter.ReadFile(path)
		if err != nil {
			logging.L().Warn("read failed", "file", path, "err", err)
			results = append(results, Result{Name: path, Err: err})
			continue
		}
		s, err := Open(offset+i, blob, opts)
		results = append(results, Result{Name: path, Session: s, Err: err})
	}
	return results
}

// Plan is a fixed sequence of steps applied to a session without user
// interaction.
type Plan struct {
	Dedupe  bool
	Fill    bool
	Columns []string
}

// Apply runs the plan's steps in order: dedupe, fill, then column selection.
func (p Plan) Apply(s *Session) error {
	if p.Dedupe {
		s.RemoveDuplicates()
	}
	if p.Fill {
		if _, err := s.FillMissing(); err != nil {
			return err
		}
	}
	return s.SetSelected(p.Columns)
}
