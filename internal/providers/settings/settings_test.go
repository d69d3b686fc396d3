package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, settings.WebdavURL)
	assert.Equal(t, DefaultFolder, settings.Folder())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	url := "https://dav.example.com/remote.php/dav"
	user := "alice"
	require.NoError(t, store.Save(Settings{WebdavURL: &url, WebdavUsername: &user}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.WebdavURL)
	assert.Equal(t, url, *loaded.WebdavURL)
	assert.Equal(t, DefaultFolder, loaded.Folder(), "missing folder falls back to default")

	content, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "webdav_url")
	assert.Contains(t, string(content), "\n", "settings file is pretty-printed")
}

func TestExportImportFormats(t *testing.T) {
	url := "https://dav.example.com"
	folder := "custom"
	in := Settings{WebdavURL: &url, WebdavFolder: &folder}

	for _, format := range []string{"json", "yaml", "toml"} {
		out, err := Export(in, format)
		require.NoError(t, err, format)

		back, err := Import(out, format)
		require.NoError(t, err, format)
		require.NotNil(t, back.WebdavURL, format)
		assert.Equal(t, url, *back.WebdavURL, format)
		assert.Equal(t, "custom", back.Folder(), format)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(Settings{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestImportFillsDefaultFolder(t *testing.T) {
	back, err := Import(`{"webdav_url":"https://dav.example.com"}`, "json")
	require.NoError(t, err)
	assert.Equal(t, DefaultFolder, back.Folder())
}

func TestProviderSaveExportImport(t *testing.T) {
	p := NewProvider(NewStore(t.TempDir()))
	ctx := context.Background()

	res, err := p.Execute(ctx, "settings.save", map[string]interface{}{
		"settings": map[string]interface{}{"webdav_url": "https://dav.example.com"},
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = p.Execute(ctx, "settings.export", map[string]interface{}{"format": "yaml"}, nil)
	require.NoError(t, err)
	content, ok := res.Data["content"].(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(content, "webdav_url"))

	res, err = p.Execute(ctx, "settings.import", map[string]interface{}{
		"content": content, "format": "yaml",
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = p.Execute(ctx, "settings.load", nil, nil)
	require.NoError(t, err)
	loaded, ok := res.Data["settings"].(Settings)
	require.True(t, ok)
	require.NotNil(t, loaded.WebdavURL)
	assert.Equal(t, "https://dav.example.com", *loaded.WebdavURL)
}
