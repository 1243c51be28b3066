package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/starcadet/relay/domain"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ListMedia returns the catalog entries whose names start with the given
// prefix. Matching is case-insensitive and whitespace in the prefix is
// treated as a hyphen, so "math lab" matches math-lab-1.mp4.
// GET /api/media?prefix=<string>
func (h *Handler) ListMedia(c echo.Context) error {
	prefix := normalizePrefix(c.QueryParam("prefix"))

	entries, err := os.ReadDir(h.cfg.MediaDir)
	if err != nil {
		log.Printf("ERROR: failed to read media directory %s: %v", h.cfg.MediaDir, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list media"})
	}

	files := []domain.MediaFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if prefix != "" && !strings.HasPrefix(strings.ToLower(name), prefix) {
			continue
		}
		files = append(files, domain.MediaFile{
			Name: name,
			URL:  "/videos/" + name,
			Type: mediaType(name),
		})
	}

	return c.JSON(http.StatusOK, domain.MediaListResponse{Files: files})
}

// ServeVideo delivers one media file, honoring byte-range requests.
// GET /videos/:name
func (h *Handler) ServeVideo(c echo.Context) error {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}

	f, err := os.Open(filepath.Join(h.cfg.MediaDir, name))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}

	// ServeContent answers a Range header with 206 and a matching
	// Content-Range, and a plain request with a full 200.
	http.ServeContent(c.Response(), c.Request(), name, info.ModTime(), f)
	return nil
}

func normalizePrefix(prefix string) string {
	return strings.Join(strings.Fields(strings.ToLower(prefix)), "-")
}

func mediaType(name string) string {
	if imageExtensions[strings.ToLower(filepath.Ext(name))] {
		return "image"
	}
	return "video"
}
