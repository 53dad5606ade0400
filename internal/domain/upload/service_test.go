package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func newStorage(t *testing.T, maxSize int64) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "uploads"), maxSize)
	require.NoError(t, err)
	return s
}

func TestStorage_Save(t *testing.T) {
	s := newStorage(t, 0)

	name, err := s.Save(context.Background(), fileHeader(t, "../../My Photo!.PNG", pngBytes))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, "_My_Photo_.png"), name)
	assert.Equal(t, filepath.Base(name), name)

	stored, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestStorage_Save_UniqueNames(t *testing.T) {
	s := newStorage(t, 0)

	a, err := s.Save(context.Background(), fileHeader(t, "same.png", pngBytes))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), fileHeader(t, "same.png", pngBytes))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStorage_Save_Rejects(t *testing.T) {
	s := newStorage(t, 32)

	_, err := s.Save(context.Background(), fileHeader(t, "empty.png", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = s.Save(context.Background(), fileHeader(t, "big.png", pngBytes))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = s.Save(context.Background(), fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorage_Save_CanceledContext(t *testing.T) {
	s := newStorage(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, fileHeader(t, "a.png", pngBytes))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_Remove(t *testing.T) {
	s := newStorage(t, 0)
	name, err := s.Save(context.Background(), fileHeader(t, "a.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, s.Remove(name))

	assert.ErrorIs(t, s.Remove("../secret"), ErrInvalidName)
	assert.ErrorIs(t, s.Remove(""), ErrInvalidName)
}

func TestStorage_Prune(t *testing.T) {
	s := newStorage(t, 0)
	keep, err := s.Save(context.Background(), fileHeader(t, "keep.png", pngBytes))
	require.NoError(t, err)
	orphan, err := s.Save(context.Background(), fileHeader(t, "orphan.png", pngBytes))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), ".gitkeep"), nil, 0o644))

	removed, err := s.Prune(context.Background(), map[string]struct{}{keep: {}}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, removed)

	_, err = os.Stat(filepath.Join(s.Dir(), keep))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), ".gitkeep"))
	assert.NoError(t, err)
}

func TestStorage_PruneKeepsFreshFiles(t *testing.T) {
	s := newStorage(t, 0)
	fresh, err := s.Save(context.Background(), fileHeader(t, "fresh.png", pngBytes))
	require.NoError(t, err)
	stale, err := s.Save(context.Background(), fileHeader(t, "stale.png", pngBytes))
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), stale), old, old))

	// neither file is referenced; only the stale one is past the grace window
	removed, err := s.Prune(context.Background(), map[string]struct{}{}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)

	_, err = os.Stat(filepath.Join(s.Dir(), fresh))
	assert.NoError(t, err)
}

func TestRegisterRoutes_ServesStoredFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newStorage(t, 0)
	name, err := s.Save(context.Background(), fileHeader(t, "a.png", pngBytes))
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngBytes, w.Body.Bytes())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "holiday-2024", sanitizeName("holiday-2024.jpg"))
	assert.Equal(t, "image", sanitizeName(""))
	assert.Equal(t, "evil", sanitizeName(`C:\tmp\evil.exe`))
	assert.Len(t, sanitizeName(strings.Repeat("a", 80)+".png"), 40)
}
