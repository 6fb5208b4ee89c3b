// Package loader fetches the JSON indexes produced by the build step.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
)

const (
	DataPrefix     = "/data"
	CoursesDocName = "courses.json"
)

// Fetcher returns the body of one URL. A response with a non-success status
// is reported as a *StatusError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s -> %d", e.URL, e.Status)
}

// FetchError is returned when every candidate URL failed. It describes the
// last attempt only.
type FetchError struct {
	URL      string
	Status   int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("tried %s -> %d (%d attempts)", e.URL, e.Status, e.Attempts)
	}

	return fmt.Sprintf("tried %s -> %v (%d attempts)", e.URL, e.Err, e.Attempts)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case common.ErrFetchFailed:
		return true
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	}

	return false
}

type Loader struct {
	fetcher Fetcher
	log     *slog.Logger
}

func NewLoader(fetcher Fetcher, log *slog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		log:     log.With(slog.String("item", "IndexLoader")),
	}
}

// FirstOK tries the urls in order and decodes the first successful body
// into v. Attempts are sequential; there is no retry beyond the list.
func (l *Loader) FirstOK(ctx context.Context, urls []string, v any) error {
	if len(urls) == 0 {
		return &FetchError{Err: common.ErrNoCandidates}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cannot decode into %T: not a non-nil pointer", v)
	}

	var last *FetchError
	for i, u := range urls {
		last = &FetchError{URL: u, Attempts: i + 1}

		body, err := l.fetcher.Fetch(ctx, u)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) {
				last.Status = se.Status
			}
			last.Err = err

			l.log.Debug("Candidate failed", slog.String("url", u), slog.Any("error", err))

			if ctx.Err() != nil {
				break
			}

			continue
		}

		// A failed decode may leave a partial value, so each attempt gets its own.
		fresh := reflect.New(rv.Elem().Type())
		if err := json.Unmarshal(body, fresh.Interface()); err != nil {
			last.Err = fmt.Errorf("cannot decode %s: %w", u, err)
			l.log.Debug("Candidate is not valid JSON", slog.String("url", u), slog.Any("error", err))

			continue
		}
		rv.Elem().Set(fresh.Elem())

		return nil
	}

	l.log.Warn("All candidates failed", slog.String("url", last.URL), slog.Int("attempts", last.Attempts), slog.Any("error", last.Err))

	return last
}

// CourseCandidates lists equivalent URLs for a course document: the
// component-encoded slug, the raw slug and the encoded slug with "+" for
// spaces. All three are returned even when they are equal.
func CourseCandidates(slug string) []string {
	encoded := EncodeComponent(slug)

	return []string{
		DataPrefix + "/course-" + encoded + ".json",
		DataPrefix + "/course-" + slug + ".json",
		DataPrefix + "/course-" + strings.ReplaceAll(encoded, "%20", "+") + ".json",
	}
}

// componentKeep undoes QueryEscape for the marks a URI component may carry
// unescaped.
var componentKeep = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// EncodeComponent escapes s as a URI component: everything except letters,
// digits and -_.!~*'() is percent-encoded, spaces as %20.
func EncodeComponent(s string) string {
	return componentKeep.Replace(url.QueryEscape(s))
}

func CoursesURL() string {
	return DataPrefix + "/" + CoursesDocName
}

func QuestionsURL(slug string) string {
	return DataPrefix + "/questions-" + slug + ".json"
}

func (l *Loader) Courses(ctx context.Context) (*entity.CourseList, error) {
	var list entity.CourseList
	if err := l.FirstOK(ctx, []string{CoursesURL()}, &list); err != nil {
		return nil, fmt.Errorf("cannot load courses list: %w", err)
	}

	return &list, nil
}

func (l *Loader) Course(ctx context.Context, slug string) (*entity.CourseIndex, error) {
	var idx entity.CourseIndex
	if err := l.FirstOK(ctx, CourseCandidates(slug), &idx); err != nil {
		return nil, fmt.Errorf("cannot load course %s: %w", slug, err)
	}

	return &idx, nil
}

// Questions loads the topic index for a question slug (see util.Slugify).
func (l *Loader) Questions(ctx context.Context, slug string) (*entity.QuestionIndex, error) {
	var idx entity.QuestionIndex
	if err := l.FirstOK(ctx, []string{QuestionsURL(slug)}, &idx); err != nil {
		return nil, fmt.Errorf("cannot load questions %s: %w", slug, err)
	}

	return &idx, nil
}
