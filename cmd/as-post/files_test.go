package main

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func writeAnimatedGIF(t *testing.T, path string) {
	t.Helper()
	palette := color.Palette{color.Black, color.White}
	anim := &gif.GIF{}
	for i := 0; i < 2; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
		frame.SetColorIndex(i, i, 1)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 10)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gif.EncodeAll(f, anim))
}

func TestDescribeFile(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "still.png")
	writePNG(t, pngPath, 16, 8)
	info, err := describeFile(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "still.png", info.Name)
	assert.Equal(t, "image/png", info.MimeType)
	assert.True(t, info.IsImage)
	assert.False(t, info.IsAnimated)
	assert.Equal(t, 16, info.Width)
	assert.Equal(t, 8, info.Height)

	gifPath := filepath.Join(dir, "moving.gif")
	writeAnimatedGIF(t, gifPath)
	info, err = describeFile(gifPath)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", info.MimeType)
	assert.True(t, info.IsAnimated)
	assert.Contains(t, info.String(), "animated")

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o644))
	info, err = describeFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", info.MimeType)
	assert.False(t, info.IsImage)
	assert.Equal(t, 5, info.Size)

	_, err = describeFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writePNG(t, filepath.Join(dir, "a.png"), 1, 1)
	writePNG(t, filepath.Join(sub, "b.PNG"), 1, 1)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.txt"), []byte("c"), 0o644))
	single := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("s"), 0o644))

	files, err := expandPaths([]string{sub, single})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(sub, "b.PNG"), filepath.Join(sub, "c.txt"), single}, files)

	files, err = expandPaths([]string{dir}, ".png")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.png"), filepath.Join(sub, "b.PNG")}, files)

	// Paths that do not exist are left for the request builder to reject.
	files, err = expandPaths([]string{filepath.Join(dir, "nope.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "nope.png")}, files)
}

func TestFileList(t *testing.T) {
	var f fileList
	require.NoError(t, f.Set("a.png"))
	require.NoError(t, f.Set("b.png"))
	assert.Equal(t, fileList{"a.png", "b.png"}, f)
	assert.Equal(t, "a.png,b.png", f.String())
}
