package microlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// uploadExtensions are the accepted image-upload suffixes. Everything is
// re-encoded to JPEG on the way in, so the list only gates what we try
// to decode.
var uploadExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

const maxUploadSize = 16 << 20 // 16MB

// handleArchive serves the paginated, searchable archive.
func (a *App) handleArchive(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	result, err := a.Cache.Page(c.QueryParam("search"), page, a.Config.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// handleCreatePost is the single entry point for new content. The form
// carries text plus an optional url or image upload; post_now publishes
// immediately, local_only archives without publishing, and the default
// enqueues for the auto-poster.
func (a *App) handleCreatePost(c echo.Context) error {
	text := strings.TrimSpace(c.FormValue("text"))
	postURL := strings.TrimSpace(c.FormValue("url"))
	postNow := c.FormValue("post_now") == "on"
	localOnly := c.FormValue("local_only") == "on"

	imageFilename := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		name, err := a.saveUpload(file)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		imageFilename = name
	}

	var content string
	switch {
	case postURL != "" && text != "":
		content = postURL + fieldSeparator + text
	case imageFilename != "" && text != "":
		content = imageFilename + fieldSeparator + text
	case text != "":
		content = text
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "post must contain at least some text")
	}

	switch {
	case localOnly:
		if err := a.archive(c.Request().Context(), content); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, map[string]string{"status": "posted locally"})
	case postNow:
		if err := a.PostNow(c.Request().Context(), content); err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("publish failed: %v", err))
		}
		return c.JSON(http.StatusCreated, map[string]string{"status": "posted"})
	default:
		if err := a.Queue.Add(content); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, map[string]string{"status": "queued"})
	}
}

// archive composes and appends a record without publishing.
func (a *App) archive(ctx context.Context, content string) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.PublishTimeout)
	defer cancel()
	rec := a.composer.Compose(ctx, content)
	if err := a.Ledger.Append(rec); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// PostNow composes, publishes, and archives content immediately. A
// success counts as a post for the auto-poster's gate timer.
func (a *App) PostNow(ctx context.Context, content string) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.PublishTimeout)
	defer cancel()
	rec := a.composer.Compose(ctx, content)
	if err := a.publisher.Publish(ctx, rec); err != nil {
		return err
	}
	if err := a.Ledger.Append(rec); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Poster.ResetTimer()
	return nil
}

// saveUpload normalizes an uploaded image and stores it under the
// images dir with a collision-proof name.
func (a *App) saveUpload(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !uploadExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large (max 16MB)")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize))
	if err != nil {
		return "", err
	}
	normalized, err := NormalizeImage(data)
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}

	if err := os.MkdirAll(a.Config.ImagesDir, 0o755); err != nil {
		return "", err
	}
	name := uploadFilename(file.Filename)
	if err := os.WriteFile(filepath.Join(a.Config.ImagesDir, name), normalized, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

func (a *App) handleQueue(c echo.Context) error {
	entries, err := a.Queue.Entries()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (a *App) handleQueueDelete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid queue index")
	}
	if err := a.Queue.Remove(index); err != nil {
		if errors.Is(err, ErrQueueIndex) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid queue index")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// handleDigest exports link posts published since the last digest and
// advances the cutoff.
func (a *App) handleDigest(c echo.Context) error {
	cutoff := time.Time{}
	if stored, err := a.Store.Get(settingLastDigestDate, ""); err != nil {
		return err
	} else if stored != "" {
		if t, err := time.Parse(recordTimeLayout, stored); err == nil {
			cutoff = t
		}
	}

	records, err := a.Cache.Records()
	if err != nil {
		return err
	}
	siteName, err := a.Store.Get(settingSiteName, a.Config.Name)
	if err != nil {
		return err
	}

	now := time.Now()
	digest, count := BuildDigest(siteName, records, cutoff, now)
	if count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no new posts since last digest")
	}
	if err := a.Store.Set(settingLastDigestDate, now.Format(recordTimeLayout)); err != nil {
		return err
	}

	filename := now.Format("2006-01-02") + "-Digest.txt"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(digest))
}

func (a *App) handleSettings(c echo.Context) error {
	siteName, err := a.Store.Get(settingSiteName, a.Config.Name)
	if err != nil {
		return err
	}
	socialLinks, err := a.Store.Get(settingSocialLinks, "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"site_name":    siteName,
		"social_links": socialLinks,
	})
}

func (a *App) handleSettingsSave(c echo.Context) error {
	siteName := strings.TrimSpace(c.FormValue("site_name"))
	if siteName == "" {
		siteName = a.Config.Name
	}
	if err := a.Store.Set(settingSiteName, siteName); err != nil {
		return err
	}
	if err := a.Store.Set(settingSocialLinks, strings.TrimSpace(c.FormValue("social_links"))); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

func (a *App) handleFeed(c echo.Context) error {
	records, err := a.Cache.Records()
	if err != nil {
		return err
	}
	siteName, err := a.Store.Get(settingSiteName, a.Config.Name)
	if err != nil {
		return err
	}
	return a.renderFeed(c, siteName, records)
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/\n\nSitemap: %s/feed.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// uploadFilename builds a stored name from the original: slugified base
// plus a short unique suffix, always .jpg after normalization.
func uploadFilename(original string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	slug := Slugify(base)
	if slug == "" {
		slug = "upload"
	}
	return slug + "-" + uuid.NewString()[:8] + ".jpg"
}
