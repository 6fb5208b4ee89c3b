package common

import "fmt"

var (
	ErrFetchFailed         = fmt.Errorf("all candidate urls failed")
	ErrNotFound            = fmt.Errorf("resource not found")
	ErrNoCandidates        = fmt.Errorf("no candidate urls")
	ErrBuildAlreadyRunning = fmt.Errorf("build process has already started")
	ErrNoCoursesFound      = fmt.Errorf("no courses found")
	ErrUnknownLogLevel     = fmt.Errorf("unknown log level")
)
