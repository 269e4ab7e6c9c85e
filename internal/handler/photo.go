package handler

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"photoshare/internal/media"
	"photoshare/internal/middleware"
	"photoshare/internal/model"
	"photoshare/internal/queue"
	"photoshare/internal/repository"
	"photoshare/internal/service"
)

// maxTagsPerPhoto caps how many distinct tags an upload may carry.
const maxTagsPerPhoto = 5

// PhotoHandler serves the photo CRUD, transformation and QR endpoints.
type PhotoHandler struct {
	Photos    *repository.PhotoRepo
	Tags      *repository.TagRepo
	Media     service.MediaService
	Publisher *service.Publisher
}

func NewPhotoHandler(p *repository.PhotoRepo, t *repository.TagRepo, m service.MediaService, pub *service.Publisher) *PhotoHandler {
	return &PhotoHandler{Photos: p, Tags: t, Media: m, Publisher: pub}
}

// parseTags splits a comma separated tag field, trims and deduplicates
// the titles, and rejects the set when it exceeds maxTagsPerPhoto.
func parseTags(raw string) ([]string, bool) {
	seen := map[string]bool{}
	var titles []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		titles = append(titles, part)
	}
	if len(titles) > maxTagsPerPhoto {
		return nil, false
	}
	return titles, true
}

// Create uploads a new photo. The tag list is validated before any
// database or media host work happens, so an oversized set costs
// nothing remote.
func (h *PhotoHandler) Create(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	titles, ok := parseTags(c.FormValue("tags"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maximum number of tags exceeded"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}

	publicID := strings.ReplaceAll(uuid.NewString(), "-", "")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Media.Upload(ctx, data, publicID, false)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "media upload failed"})
	}

	tagIDs := make([]uint64, 0, len(titles))
	for _, title := range titles {
		t, err := h.Tags.FindOrCreate(ctx, title, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tag lookup failed"})
		}
		tagIDs = append(tagIDs, t.ID)
	}

	id, err := h.Photos.Create(ctx, u.ID, res.PublicID, res.SecureURL, c.FormValue("description"), tagIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create photo failed"})
	}

	photo, err := h.Photos.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, photo)
}

// List returns a page of photos. skip/limit mirror offset pagination;
// limit is clamped to 100.
func (h *PhotoHandler) List(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	photos, err := h.Photos.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, photos)
}

// Get returns a photo with its tags.
func (h *PhotoHandler) Get(c echo.Context) error {
	photo, ok := h.loadPhoto(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, photo)
}

type updatePhotoReq struct {
	Description string `json:"description"`
}

// Update changes the description. Owner or administrator only.
func (h *PhotoHandler) Update(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photo, ok := h.loadPhoto(c)
	if !ok {
		return nil
	}
	if !service.CanMutate(u, photo.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req updatePhotoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Photos.UpdateDescription(ctx, photo.ID, req.Description); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	photo.Description = req.Description
	return c.JSON(http.StatusOK, photo)
}

// Delete removes a photo and all its remote artifacts.
func (h *PhotoHandler) Delete(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photo, ok := h.loadPhoto(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.Publisher.Remove(ctx, u, photo); err != nil {
		switch err {
		case service.ErrPermissionDenied:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "photo deleted successfully"})
}

// Transform composes the requested operations, materializes the result
// on the media host and persists the new URL. An event is published to
// the broker on a best-effort basis; broker trouble never fails the
// request.
func (h *PhotoHandler) Transform(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photo, ok := h.loadPhoto(c)
	if !ok {
		return nil
	}
	if !service.CanMutate(u, photo.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req media.TransformRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ops := media.Compose(req)
	if len(ops) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no transformation type selected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	transformedURL, err := h.Publisher.Apply(ctx, photo, ops)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "media transform failed"})
	}

	event := queue.PhotoTransformedEvent{
		PhotoID:        photo.ID,
		OwnerID:        photo.OwnerID,
		PublicID:       photo.PublicID,
		TransformedURL: transformedURL,
		OpCount:        len(ops),
		TransformedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue.PublishPhotoTransformed(pubCtx, event); err != nil {
			log.Printf("queue: publish transform event failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{"transformed_url": transformedURL})
}

// QR generates a QR artifact encoding the photo's transformed URL.
func (h *PhotoHandler) QR(c echo.Context) error {
	u, ok := middleware.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	photo, ok := h.loadPhoto(c)
	if !ok {
		return nil
	}
	if !service.CanMutate(u, photo.OwnerID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	qrURL, err := h.Publisher.PublishQR(ctx, photo)
	if err != nil {
		if err == service.ErrNoTransform {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no transformation available"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "qr generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"qr_url": qrURL})
}

// loadPhoto parses the :id parameter and fetches the photo, writing
// the error response itself. The bool reports whether the caller may
// proceed.
func (h *PhotoHandler) loadPhoto(c echo.Context) (model.Photo, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return model.Photo{}, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	photo, err := h.Photos.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.Photo{}, false
	}
	return photo, true
}
