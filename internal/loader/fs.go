package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FSFetcher serves URL paths from a directory, so the loader can run
// against a freshly built data/ folder without a web server.
type FSFetcher struct {
	fs   afero.Fs
	root string
}

func NewFSFetcher(fs afero.Fs, root string) *FSFetcher {
	return &FSFetcher{fs: fs, root: root}
}

func (f *FSFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &StatusError{URL: rawURL, Status: http.StatusBadRequest}
	}

	clean := path.Clean("/" + u.Path)
	if strings.Contains(u.Path, "..") {
		return nil, &StatusError{URL: rawURL, Status: http.StatusBadRequest}
	}

	data, err := afero.ReadFile(f.fs, filepath.Join(f.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StatusError{URL: rawURL, Status: http.StatusNotFound}
		}

		return nil, fmt.Errorf("cannot read %s: %w", rawURL, err)
	}

	return data, nil
}
