package document

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/spf13/afero"
)

const tmpSuffix = ".tmp"

type fsRepository struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// NewFSRepository writes documents into dir, the data folder served at
// /data/.
func NewFSRepository(fs afero.Fs, dir string, log *slog.Logger) *fsRepository {
	return &fsRepository{
		fs:  fs,
		dir: dir,
		log: log.With(slog.String("item", "FSRepository")),
	}
}

// Save writes every document through a temporary file, so a reader never
// sees a half written index.
func (r *fsRepository) Save(ctx context.Context, docs []entity.Document) error {
	if err := r.fs.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create data folder %s: %w", r.dir, err)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if doc.Name == "" || strings.ContainsAny(doc.Name, `/\`) {
			return fmt.Errorf("invalid document name %q", doc.Name)
		}

		name := filepath.Join(r.dir, doc.Name)
		if err := afero.WriteFile(r.fs, name+tmpSuffix, doc.Data, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", name, err)
		}

		if err := r.fs.Rename(name+tmpSuffix, name); err != nil {
			return fmt.Errorf("cannot replace %s: %w", name, err)
		}

		r.log.Info("Wrote", slog.String("path", name), slog.Int("bytes", len(doc.Data)))
	}

	return nil
}
