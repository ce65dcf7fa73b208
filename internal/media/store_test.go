package media

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.White), imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSaveBase64_ResizesLargeImages(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, "http://localhost/media/", 100, 50)

	rel, err := s.SaveBase64(DirRecipes, pngDataURL(t, 400, 100))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(rel))
	assert.Equal(t, "http://localhost/media/"+rel, s.URL(rel))

	img, err := imaging.Open(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestSaveBase64_BareBase64AndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, "/media", 0, 0)
	data := pngDataURL(t, 2, 2)[len("data:image/png;base64,"):]

	rel, err := s.SaveBase64(DirAvatars, data)
	require.NoError(t, err)
	full := filepath.Join(root, rel)
	_, err = os.Stat(full)
	require.NoError(t, err)

	s.Delete(rel)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	s.Delete(rel)
}

func TestSaveBase64_Rejects(t *testing.T) {
	s := NewStore(t.TempDir(), "/media", 0, 0)
	for name, in := range map[string]string{
		"not base64":    "data:image/png;base64,@@@",
		"not an image":  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
		"unknown mime":  "data:text/plain;base64,aGVsbG8=",
		"missing comma": "data:image/png;base64",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.SaveBase64(DirRecipes, in)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
	assert.Empty(t, s.URL(""))
}
