package webdav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURLReplacesFileSegment(t *testing.T) {
	got, err := ResolveURL("https://dav.example.com/path/custom.json", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/path/hosts.db", got)
}

func TestResolveURLKeepsExactMatch(t *testing.T) {
	got, err := ResolveURL("https://dav.example.com/path/hosts.db", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/path/hosts.db", got)
}

func TestResolveURLAppendsToDirectory(t *testing.T) {
	got, err := ResolveURL("https://dav.example.com/dav/", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/hosts.db", got)

	got, err = ResolveURL("https://dav.example.com/dav", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/hosts.db", got)

	got, err = ResolveURL("https://dav.example.com", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/hosts.db", got)
}

func TestResolveURLEmptyInput(t *testing.T) {
	_, err := ResolveURL("   ", "hosts.db")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResolveWithFolderUsesFolderForBaseURLs(t *testing.T) {
	got, err := ResolveURLWithFolder("https://dav.example.com/dav/", "xTerm", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/xTerm/hosts.db", got)
}

func TestResolveWithFolderKeepsExplicitFileURL(t *testing.T) {
	got, err := ResolveURLWithFolder("https://dav.example.com/dav/current.db", "ignored", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/hosts.db", got)
}

func TestResolveWithFolderEmptyFolder(t *testing.T) {
	got, err := ResolveURLWithFolder("https://dav.example.com/dav", "  ", "hosts.json")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/hosts.json", got)
}

func TestResolveWithFolderNestedFolder(t *testing.T) {
	got, err := ResolveURLWithFolder("https://dav.example.com/dav/", "/backups/xTerm/", "hosts.db")
	require.NoError(t, err)
	assert.Equal(t, "https://dav.example.com/dav/backups/xTerm/hosts.db", got)
}

func TestFolderURLs(t *testing.T) {
	urls, err := folderURLs("https://dav.example.com/dav/", "backups/xTerm")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://dav.example.com/dav/backups/",
		"https://dav.example.com/dav/backups/xTerm/",
	}, urls)
}

func TestFolderURLsDropsFileSegment(t *testing.T) {
	urls, err := folderURLs("https://dav.example.com/dav/current.db", "xTerm")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://dav.example.com/dav/xTerm/"}, urls)
}

func TestFolderURLsEmptyFolder(t *testing.T) {
	urls, err := folderURLs("https://dav.example.com/dav/", "")
	require.NoError(t, err)
	assert.Empty(t, urls)
}
