package webdav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotConfigured is returned when no WebDAV URL is set.
var ErrNotConfigured = errors.New("WebDAV URL not configured")

// looksLikeFile reports whether a path segment names one of the files
// this app syncs. URLs ending in such a segment are treated as explicit
// file URLs rather than directories.
func looksLikeFile(segment string) bool {
	return strings.HasSuffix(segment, ".db") ||
		strings.HasSuffix(segment, ".json") ||
		strings.HasSuffix(segment, ".sqlite")
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ResolveURL turns a configured WebDAV URL into the URL of filename.
// A URL already ending in filename is used as-is; directory URLs get
// the filename appended; URLs ending in another file-looking segment
// have that segment replaced.
func ResolveURL(input, filename string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid WebDAV URL: %w", err)
	}

	path := u.Path
	last := lastSegment(path)

	switch {
	case last == filename:
		return u.String(), nil
	case strings.HasSuffix(path, "/") || last == "":
		u.Path = strings.TrimSuffix(path, "/") + "/" + filename
	case looksLikeFile(last):
		u.Path = path[:len(path)-len(last)] + filename
	default:
		u.Path = path + "/" + filename
	}
	return u.String(), nil
}

// ResolveURLWithFolder resolves filename under the configured folder.
// Explicit file URLs ignore the folder entirely; directory URLs get
// folder segments appended before the filename.
func ResolveURLWithFolder(input, folder, filename string) (string, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid WebDAV URL: %w", err)
	}
	if looksLikeFile(lastSegment(u.Path)) {
		return ResolveURL(raw, filename)
	}

	segments := []string{strings.TrimSuffix(u.Path, "/")}
	for _, part := range strings.Split(strings.Trim(folder, "/ "), "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	segments = append(segments, filename)
	u.Path = strings.Join(segments, "/")
	return u.String(), nil
}

// folderURLs lists the URL of every folder level that must exist for
// uploads to land, outermost first. A file-looking trailing segment on
// the base URL is dropped before appending folder parts.
func folderURLs(input, folder string) ([]string, error) {
	parts := splitFolder(folder)
	if len(parts) == 0 {
		return nil, nil
	}

	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("invalid WebDAV URL: %w", err)
	}

	base := u.Path
	if !strings.HasSuffix(base, "/") && looksLikeFile(lastSegment(base)) {
		base = base[:len(base)-len(lastSegment(base))]
	}
	base = strings.TrimSuffix(base, "/")

	var urls []string
	for _, part := range parts {
		base = base + "/" + part
		u.Path = base + "/"
		urls = append(urls, u.String())
	}
	return urls, nil
}

func splitFolder(folder string) []string {
	var parts []string
	for _, part := range strings.Split(strings.Trim(folder, "/ "), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
