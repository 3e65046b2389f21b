package archive

import (
	"path"
	"strings"
)

// StripPrefix maps an archive entry name to a slash-separated path relative to the
// extraction root. The match is per path component: prefix must be exactly the first
// component. The prefix directory itself and every entry outside it report false.
func StripPrefix(name, prefix string) (string, bool) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	first, rest, found := strings.Cut(clean, "/")
	if !found || first != prefix || rest == "" {
		return "", false
	}
	return rest, true
}
