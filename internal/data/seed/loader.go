package seed

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cinegraph/internal/core/errors"
)

// FileSource loads datasets from the local filesystem.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

// Load reads and validates one dataset file. The returned dataset carries the
// file's SHA-256 so callers can skip re-applying unchanged content.
func (l *FileSource) Load(ctx context.Context, path string) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, errors.Wrap(err, errors.CodeIO, "read seed file")
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, errors.Wrap(err, errors.CodeValidationError, "parse seed file")
	}
	if err := validate(ds); err != nil {
		return Dataset{}, err
	}

	ds.Checksum = fmt.Sprintf("%x", sha256.Sum256(data))
	return ds, nil
}

func validate(ds Dataset) error {
	for i, m := range ds.Movies {
		if strings.TrimSpace(m.Title) == "" {
			return errors.Newf(errors.CodeValidationError, "movies[%d]: title must not be empty", i)
		}
	}
	for i, p := range ds.People {
		if strings.TrimSpace(p.Name) == "" {
			return errors.Newf(errors.CodeValidationError, "people[%d]: name must not be empty", i)
		}
	}
	for i, name := range ds.Genres {
		if strings.TrimSpace(name) == "" {
			return errors.Newf(errors.CodeValidationError, "genres[%d]: name must not be empty", i)
		}
	}
	for i, name := range ds.Studios {
		if strings.TrimSpace(name) == "" {
			return errors.Newf(errors.CodeValidationError, "studios[%d]: name must not be empty", i)
		}
	}
	for i, a := range ds.ActedIn {
		if a.Person == "" || a.Movie == "" {
			return errors.Newf(errors.CodeValidationError, "acted_in[%d]: person and movie are required", i)
		}
		if len(a.Roles) == 0 {
			return errors.Newf(errors.CodeValidationError, "acted_in[%d]: roles must not be empty", i)
		}
	}
	for i, d := range ds.Directed {
		if d.Person == "" || d.Movie == "" {
			return errors.Newf(errors.CodeValidationError, "directed[%d]: person and movie are required", i)
		}
	}
	for i, gt := range ds.HasGenre {
		if gt.Movie == "" || gt.Genre == "" {
			return errors.Newf(errors.CodeValidationError, "has_genre[%d]: movie and genre are required", i)
		}
	}
	for i, p := range ds.Produced {
		if p.Studio == "" || p.Movie == "" {
			return errors.Newf(errors.CodeValidationError, "produced[%d]: studio and movie are required", i)
		}
	}
	return nil
}
