package common

import (
	"regexp"
	"strings"
)

// CompileInsensitive compiles a configured pattern with case-insensitive
// matching forced on, unless the pattern already carries its own flag group.
// Bank message casing varies by carrier and platform, so configured regexes
// never depend on it.
func CompileInsensitive(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?i)") {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
