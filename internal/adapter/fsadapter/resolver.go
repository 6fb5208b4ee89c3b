package fsadapter

import (
	"github.com/jgivc/frqarchive/internal/entity"
)

// fileResolver finds course files by name for description links. When the
// same name exists in several years the newest year wins; "<year>/<name>"
// addresses one year explicitly.
type fileResolver struct {
	index map[string]string
}

func newFileResolver(years []entity.YearEntry) *fileResolver {
	r := &fileResolver{index: make(map[string]string)}

	// Years are newest first, so the first name seen is kept.
	for _, y := range years {
		for _, f := range y.Files {
			if _, ok := r.index[f.Name]; !ok {
				r.index[f.Name] = f.URL
			}
			r.index[y.Year+"/"+f.Name] = f.URL
		}
	}

	return r
}

func (r *fileResolver) FileURL(name string) (string, bool) {
	url, ok := r.index[name]

	return url, ok
}
