package parser

import (
	"bytes"
	"regexp"
	"strings"
)

// Match holds what a single log line contributed.
type Match struct {
	IP       string
	HasIP    bool
	Path     string
	HasPath  bool
	NotFound bool
}

// \d and \s are ASCII-only in RE2. These classes widen them to every Unicode
// decimal digit and every Unicode space, vertical tab and the ASCII
// separators 0x1c-0x1f included.
const (
	digitClass    = `\p{Nd}`
	spaceClass    = `[\s\v\x1c-\x1f\x{85}\p{Z}]`
	nonSpaceClass = `[^\s\v\x1c-\x1f\x{85}\p{Z}]`
)

// ipRe matches anything shaped like a dotted quad. Octets are not range-checked,
// so version strings such as 1.2.3.4 inside a user agent match too.
var ipRe = regexp.MustCompile(digitClass + `+\.` + digitClass + `+\.` + digitClass + `+\.` + digitClass + `+`)

// getPathRe matches a GET request target:
// 127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326
var getPathRe = regexp.MustCompile(`GET` + spaceClass + `(/` + nonSpaceClass + `+)`)

const notFoundMarker = " 404 "

// ExtractIP returns the leftmost dotted quad in line.
func ExtractIP(line string) (string, bool) {
	loc := ipRe.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

// ExtractPath returns the path of the leftmost GET request in line.
func ExtractPath(line string) (string, bool) {
	m := getPathRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasNotFound reports whether line contains a space-delimited 404.
func HasNotFound(line string) bool {
	return strings.Contains(line, notFoundMarker)
}

// Scan runs every extraction against line. No check depends on another.
func Scan(line string) Match {
	var m Match
	m.IP, m.HasIP = ExtractIP(line)
	m.Path, m.HasPath = ExtractPath(line)
	m.NotFound = HasNotFound(line)
	return m
}

// SplitLines splits file content into lines. "\r\n", a lone "\r" and "\n" all
// end a line, and a final line without a terminator is kept.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\n"))
	return strings.Split(string(data), "\n")
}
