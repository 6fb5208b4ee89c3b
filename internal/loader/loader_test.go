package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type recordingFetcher struct {
	mu      sync.Mutex
	bodies  map[string]string
	status  map[string]int
	tried   []string
	failure error
}

func (f *recordingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tried = append(f.tried, url)
	if body, ok := f.bodies[url]; ok {
		return []byte(body), nil
	}

	if f.failure != nil {
		return nil, f.failure
	}

	status := http.StatusNotFound
	if s, ok := f.status[url]; ok {
		status = s
	}

	return nil, &StatusError{URL: url, Status: status}
}

func TestCourseCandidates(t *testing.T) {
	assert.Equal(t, []string{
		"/data/course-ap-biology.json",
		"/data/course-ap-biology.json",
		"/data/course-ap-biology.json",
	}, CourseCandidates("ap-biology"))

	assert.Equal(t, []string{
		"/data/course-AP%20Art%20%26%20Design.json",
		"/data/course-AP Art & Design.json",
		"/data/course-AP+Art+%26+Design.json",
	}, CourseCandidates("AP Art & Design"))
}

func TestEncodeComponent(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "ap-biology", want: "ap-biology"},
		{in: "AP Biology & Lab", want: "AP%20Biology%20%26%20Lab"},
		{in: "a+b=c:d@e$f/g?h#i", want: "a%2Bb%3Dc%3Ad%40e%24f%2Fg%3Fh%23i"},
		{in: "keep-_.!~*'()", want: "keep-_.!~*'()"},
		{in: "café", want: "caf%C3%A9"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, EncodeComponent(tc.in))
		})
	}
}

func TestFirstOKReturnsFirstSuccess(t *testing.T) {
	f := &recordingFetcher{bodies: map[string]string{
		"/b": `{"slug":"b"}`,
		"/c": `{"slug":"c"}`,
	}}
	l := NewLoader(f, testLogger())

	var idx entity.CourseIndex
	require.NoError(t, l.FirstOK(context.Background(), []string{"/a", "/b", "/c"}, &idx))

	assert.Equal(t, "b", idx.Slug)
	assert.Equal(t, []string{"/a", "/b"}, f.tried)
}

func TestFirstOKSkipsInvalidJSON(t *testing.T) {
	f := &recordingFetcher{bodies: map[string]string{
		"/a": `<html>not json</html>`,
		"/b": `{"slug":"b"}`,
	}}
	l := NewLoader(f, testLogger())

	var idx entity.CourseIndex
	require.NoError(t, l.FirstOK(context.Background(), []string{"/a", "/b"}, &idx))
	assert.Equal(t, "b", idx.Slug)
}

func TestFirstOKDiscardsPartialDecode(t *testing.T) {
	f := &recordingFetcher{bodies: map[string]string{
		"/a": `{"title":"STALE","years":"oops"}`,
		"/b": `{"slug":"ok","years":[]}`,
	}}
	l := NewLoader(f, testLogger())

	idx := entity.CourseIndex{Description: "previous"}
	require.NoError(t, l.FirstOK(context.Background(), []string{"/a", "/b"}, &idx))
	assert.Equal(t, "ok", idx.Slug)
	assert.Empty(t, idx.Title)
	assert.Empty(t, idx.Description)
	assert.Empty(t, idx.Years)
}

func TestFirstOKPartialDecodeOnlyFailure(t *testing.T) {
	f := &recordingFetcher{bodies: map[string]string{"/a": `{"title":"STALE","years":"oops"}`}}
	l := NewLoader(f, testLogger())

	var idx entity.CourseIndex
	require.Error(t, l.FirstOK(context.Background(), []string{"/a"}, &idx))
	assert.Empty(t, idx.Title)
}

func TestFirstOKRejectsNonPointer(t *testing.T) {
	l := NewLoader(&recordingFetcher{}, testLogger())

	require.Error(t, l.FirstOK(context.Background(), []string{"/a"}, entity.CourseIndex{}))
}

func TestCourseAllCandidatesFail(t *testing.T) {
	f := &recordingFetcher{status: map[string]int{"/data/course-ap-biology.json": http.StatusServiceUnavailable}}
	l := NewLoader(f, testLogger())

	_, err := l.Course(context.Background(), "ap-biology")
	require.Error(t, err)

	assert.Len(t, f.tried, 3)
	assert.True(t, errors.Is(err, common.ErrFetchFailed))
	assert.False(t, errors.Is(err, common.ErrNotFound))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "/data/course-ap-biology.json", fe.URL)
	assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	assert.Equal(t, 3, fe.Attempts)
	assert.Contains(t, err.Error(), "/data/course-ap-biology.json")
	assert.Contains(t, err.Error(), "503")
}

func TestFetchErrorCause(t *testing.T) {
	f := &recordingFetcher{failure: errors.New("connection refused")}
	l := NewLoader(f, testLogger())

	_, err := l.Questions(context.Background(), "ap-biology")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "/data/questions-ap-biology.json")
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, common.ErrNotFound))
}

func TestFirstOKNoCandidates(t *testing.T) {
	l := NewLoader(&recordingFetcher{}, testLogger())

	err := l.FirstOK(context.Background(), nil, &struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoCandidates))
}

func TestFSFetcher(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/data/courses.json", []byte(`{"courses":[{"slug":"ap-biology","title":"AP Biology"}]}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/site/data/course-AP Art.json", []byte(`{"slug":"AP Art"}`), 0o644))

	l := NewLoader(NewFSFetcher(fs, "/site"), testLogger())

	list, err := l.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Courses, 1)
	assert.Equal(t, "ap-biology", list.Courses[0].Slug)

	idx, err := l.Course(context.Background(), "AP Art")
	require.NoError(t, err)
	assert.Equal(t, "AP Art", idx.Slug)

	_, err = l.Questions(context.Background(), "ap-biology")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = NewFSFetcher(fs, "/site").Fetch(context.Background(), "/data/../secret")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))

		switch r.URL.Path {
		case "/data/courses.json":
			w.Write([]byte(`{"generatedAt":"2024-01-01T00:00:00Z","courses":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(NewHTTPFetcher(srv.URL+"/", srv.Client()), testLogger())

	list, err := l.Courses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", list.GeneratedAt)

	_, err = l.Course(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
}
