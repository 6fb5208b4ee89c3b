package httphandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/loader"
	"github.com/jgivc/frqarchive/internal/util"
	"github.com/spf13/afero"
)

const (
	headerCacheControl = "Cache-Control"
	headerETag         = "ETag"
	headerIfNoneMatch  = "If-None-Match"
	headerContentType  = "Content-Type"

	noCache = "no-cache"
)

// diagnosticPage is written when no page could be rendered at all.
const diagnosticPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Error | APFRQs</title></head>
<body>
<main>
<section class="error-panel">
<h2>Something went wrong while rendering this page.</h2>
<ol><li>Reload the page</li><li><a href="/">Go back to the home page</a></li></ol>
</section>
</main>
</body>
</html>
`

func writeDiagnostic(w http.ResponseWriter) {
	w.Header().Set(headerContentType, "text/html; charset=utf-8")
	w.Header().Set(headerCacheControl, "no-store")
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, diagnosticPage)
}

type PageService interface {
	GetPage(ctx context.Context, path string, query url.Values) (*entity.RenderedPage, error)
}

type IndexService interface {
	Index(ctx context.Context) ([]*entity.BuildInfo, error)
}

type InfoService interface {
	Info(ctx context.Context) ([]*entity.BuildInfo, error)
}

func NewPageHandler(srv PageService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "PageHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		page, err := srv.GetPage(r.Context(), r.URL.EscapedPath(), r.URL.Query())
		if err != nil {
			log.Error("Cannot get page", slog.String("path", r.URL.Path), slog.Any("error", err))
			writeDiagnostic(w)

			return
		}

		w.Header().Set(headerContentType, "text/html; charset=utf-8")
		w.Header().Set(headerCacheControl, noCache)
		w.Header().Set(headerETag, page.ETag)

		if page.Status == http.StatusOK && r.Header.Get(headerIfNoneMatch) == page.ETag {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.WriteHeader(page.Status)
		w.Write([]byte(page.Body))
	}
}

// NewDataHandler serves /data/ documents through the same fetcher the
// loader reads, so published Redis data is visible without a data folder.
func NewDataHandler(fetcher loader.Fetcher, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DataHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fetcher.Fetch(r.Context(), r.URL.EscapedPath())
		if err != nil {
			var se *loader.StatusError
			if errors.As(err, &se) && se.Status == http.StatusNotFound {
				http.Error(w, "Cannot find document", http.StatusNotFound)

				return
			}

			log.Error("Cannot fetch document", slog.String("path", r.URL.Path), slog.Any("error", err))
			http.Error(w, "Cannot get document", http.StatusBadGateway)

			return
		}

		body := string(data)
		etag := `"` + util.GetIDFromString(&body) + `"`

		w.Header().Set(headerContentType, "application/json; charset=utf-8")
		w.Header().Set(headerCacheControl, noCache)
		w.Header().Set(headerETag, etag)

		if r.Header.Get(headerIfNoneMatch) == etag {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.Write(data)
	}
}

// NewFileHandler serves course and question files from fs. Directories are
// not listed.
func NewFileHandler(fs afero.Fs, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "FileHandler"))
	files := http.FileServer(afero.NewHttpFs(fs))

	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean(r.URL.Path)

		fi, err := fs.Stat(name)
		if err != nil || fi.IsDir() {
			log.Debug("File not found", slog.String("path", name))
			http.NotFound(w, r)

			return
		}

		// Set before serving so conditional requests are answered with 304.
		tag := name + strconv.FormatInt(fi.Size(), 10) + strconv.FormatInt(fi.ModTime().UnixNano(), 10)
		w.Header().Set(headerETag, `"`+util.GetIDFromString(&tag)+`"`)
		w.Header().Set(headerCacheControl, noCache)

		files.ServeHTTP(w, r)
	}
}

func NewIndexHandler(srv IndexService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "IndexHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		// The build outlives the request that started it.
		infos, err := srv.Index(context.Background())
		if err != nil {
			switch {
			case errors.Is(err, common.ErrBuildAlreadyRunning):
				http.Error(w, "Build has already started", http.StatusConflict)
			case errors.Is(err, common.ErrNoCoursesFound):
				http.Error(w, "No courses found", http.StatusUnprocessableEntity)
			default:
				log.Error("Cannot build", slog.Any("error", err))
				http.Error(w, "Cannot build indexes", http.StatusInternalServerError)
			}

			return
		}

		writeInfos(w, infos)
	}
}

func NewInfoHandler(srv InfoService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "InfoHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := srv.Info(r.Context())
		if err != nil {
			if errors.Is(err, common.ErrNoCoursesFound) {
				http.Error(w, "No build yet", http.StatusNotFound)

				return
			}

			log.Error("Cannot get info", slog.Any("error", err))
			http.Error(w, "Cannot get info", http.StatusInternalServerError)

			return
		}

		writeInfos(w, infos)
	}
}

func writeInfos(w http.ResponseWriter, infos []*entity.BuildInfo) {
	buf := bytes.Buffer{}
	for i, info := range infos {
		buf.WriteString(fmt.Sprintf("%d. %s -> %s, years: %d, files: %d, questions: %d\n",
			i+1, info.SourcePath, strings.TrimSpace(info.Title), info.YearCount, info.FileCount, info.QuestionCount))
	}

	w.Header().Set(headerContentType, "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}
