package util

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonAlnumRegexp = regexp.MustCompile(`[^a-z0-9]+`)

func GetIDFromString(str *string) string {
	hasher := sha1.New()
	hasher.Write([]byte(*str))

	return hex.EncodeToString(hasher.Sum(nil))
}

// Slugify must stay in sync with the slugs the build step writes:
// lowercase, "&" becomes "and", runs of other characters collapse to "-".
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonAlnumRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
