// Package include extracts include directives from source files.
//
// Directives are matched line by line with a single pattern and treated as
// opaque strings: no preprocessing, no macro expansion, no conditional
// compilation. A directive contributes exactly the token that follows the
// keyword, stripped of its surrounding quote or angle-bracket delimiters.
package include

import (
	"bufio"
	"io"
	"os"
	"regexp"
)

// directiveRE matches an include directive: the marker in column zero,
// optional spaces before the keyword, then one whitespace-delimited target.
var directiveRE = regexp.MustCompile(`^#\s*include\s+(\S+)`)

// Extract scans r line by line and returns the include targets in order of
// appearance. Repeated targets are preserved, one entry per directive.
func Extract(r io.Reader) ([]string, error) {
	var targets []string

	scanner := bufio.NewScanner(r)
	// Generated or minified sources can exceed the default line limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := directiveRE.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			targets = append(targets, stripDelimiters(m[1]))
		}
	}

	return targets, scanner.Err()
}

// ExtractFile extracts include targets from the file at path. Unreadable
// files yield no targets, so one bad file never aborts a directory scan.
func ExtractFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	targets, _ := Extract(f)
	return targets
}

// stripDelimiters removes a matched pair of quote or angle-bracket
// delimiters around an include target. Tokens without a matched pair are
// returned unchanged.
func stripDelimiters(token string) string {
	if len(token) >= 2 {
		first, last := token[0], token[len(token)-1]
		if (first == '"' && last == '"') || (first == '<' && last == '>') {
			return token[1 : len(token)-1]
		}
	}
	return token
}
