package navigation

import (
	"strings"
	"sync"
)

// Addressing converts between in-app hrefs ("/course/x?q=1") and the
// addresses kept in session history.
type Addressing interface {
	Address(href string) string
	Href(address string) string
}

// PathAddressing stores hrefs as real paths.
type PathAddressing struct{}

func (PathAddressing) Address(href string) string {
	if href == "" {
		return "/"
	}

	return href
}

func (PathAddressing) Href(address string) string {
	if address == "" {
		return "/"
	}

	return address
}

// FragmentAddressing keeps the document at "/" and puts the href in the
// fragment: "/#/course/x?q=1".
type FragmentAddressing struct{}

func (FragmentAddressing) Address(href string) string {
	if href == "" {
		href = "/"
	}

	return "/#" + href
}

func (FragmentAddressing) Href(address string) string {
	_, frag, ok := strings.Cut(address, "#")
	if !ok || frag == "" {
		return "/"
	}

	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}

	return frag
}

// History is an in-memory session history. Push drops every entry after
// the current one.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
}

func NewHistory(start string) *History {
	return &History{entries: []string{start}}
}

func (h *History) Push(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.index+1], address)
	h.index++
}

func (h *History) Replace(address string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.index] = address
}

// Back moves one entry back and returns it. ok is false at the first entry.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == 0 {
		return "", false
	}
	h.index--

	return h.entries[h.index], true
}

// Forward moves one entry forward and returns it. ok is false at the last entry.
func (h *History) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == len(h.entries)-1 {
		return "", false
	}
	h.index++

	return h.entries[h.index], true
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.entries[h.index]
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Entries returns a copy of the history and the index of the current entry.
func (h *History) Entries() ([]string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.entries...), h.index
}
