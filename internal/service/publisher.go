// Package service orchestrates the media host and the photo store:
// applying composed transformations, deriving QR artifacts and
// removing every remote artifact when a photo is deleted.
package service

import (
	"context"
	"errors"
	"log"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"photoshare/internal/auth"
	"photoshare/internal/media"
	"photoshare/internal/model"
)

// qrSize is the pixel size of the generated QR bitmap and of its
// fixed delivery URL.
const qrSize = 250

var (
	// ErrNoTransform is returned when a QR artifact is requested for a
	// photo that has no transformed image yet.
	ErrNoTransform = errors.New("no transformation available")

	// ErrPermissionDenied is returned when the acting user neither owns
	// the resource nor holds the Administrator role.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNoOps guards Apply against being invoked with an empty
	// operation list; callers must treat an empty composition as
	// "nothing selected" and never reach the publisher with it.
	ErrNoOps = errors.New("no operations to apply")
)

// MediaService is the slice of the media client the publisher needs.
// The host is an opaque remote dependency, so tests substitute a fake.
type MediaService interface {
	Upload(ctx context.Context, data []byte, publicID string, overwrite bool) (*media.UploadResult, error)
	UploadRemote(ctx context.Context, sourceURL, publicID string) (*media.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
	BuildURL(publicID string, ops []media.PrimitiveOp) string
	TransformKey(publicID string) string
}

// PhotoStore is the slice of the photo repository the publisher needs.
type PhotoStore interface {
	SetTransformResult(ctx context.Context, id uint64, transformedURL string) error
	SetQRURL(ctx context.Context, id uint64, qrURL string) error
	Delete(ctx context.Context, id uint64) error
}

// CanMutate implements the ownership/moderation policy: a photo (or
// comment, or tag) may be mutated by its owner or by any
// Administrator. Inactive actors are rejected upstream by the auth
// middleware before this check runs.
func CanMutate(actor model.User, ownerID uint64) bool {
	return actor.ID == ownerID || actor.Roles.Has(auth.RoleAdministrator)
}

// Publisher executes composed transformations against the media host
// and persists the resulting artifact URLs.
type Publisher struct {
	Media  MediaService
	Photos PhotoStore
}

func NewPublisher(m MediaService, p PhotoStore) *Publisher {
	return &Publisher{Media: m, Photos: p}
}

// Apply builds the transformation URL for the photo's public id, asks
// the host to materialize it (overwriting any previous transform of
// the same asset) and persists the URL. The database is only touched
// after the external call has succeeded, in a single statement that
// also clears the now-stale QR URL, so a host failure leaves no
// partially committed state.
func (p *Publisher) Apply(ctx context.Context, photo model.Photo, ops []media.PrimitiveOp) (string, error) {
	if len(ops) == 0 {
		return "", ErrNoOps
	}
	transformedURL := p.Media.BuildURL(photo.PublicID, ops)
	if _, err := p.Media.UploadRemote(ctx, transformedURL, photo.PublicID); err != nil {
		return "", err
	}
	if err := p.Photos.SetTransformResult(ctx, photo.ID, transformedURL); err != nil {
		return "", err
	}
	return transformedURL, nil
}

// PublishQR encodes the photo's transformed URL into a QR bitmap,
// uploads it under public_id+"_qr" and persists the fixed-size
// delivery URL. Requires a transform to exist; the media host is not
// contacted otherwise.
func (p *Publisher) PublishQR(ctx context.Context, photo model.Photo) (string, error) {
	if photo.TransformedURL == "" {
		return "", ErrNoTransform
	}
	png, err := qrcode.Encode(photo.TransformedURL, qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	qrKey := photo.PublicID + "_qr"
	if _, err := p.Media.Upload(ctx, png, qrKey, true); err != nil {
		return "", err
	}
	qrURL := p.Media.BuildURL(qrKey, []media.PrimitiveOp{{
		{Name: "c", Value: "fill"},
		{Name: "h", Value: strconv.Itoa(qrSize)},
		{Name: "w", Value: strconv.Itoa(qrSize)},
	}})
	if err := p.Photos.SetQRURL(ctx, photo.ID, qrURL); err != nil {
		return "", err
	}
	return qrURL, nil
}

// Remove deletes a photo on behalf of actor. The base, transform and
// QR artifacts are destroyed in that order; each destroy failure is
// logged and ignored so remote trouble never blocks local cleanup.
// The row (with its comments and tag links) goes last.
func (p *Publisher) Remove(ctx context.Context, actor model.User, photo model.Photo) error {
	if !CanMutate(actor, photo.OwnerID) {
		return ErrPermissionDenied
	}
	for _, key := range []string{
		photo.PublicID,
		p.Media.TransformKey(photo.PublicID),
		photo.PublicID + "_qr",
	} {
		if err := p.Media.Destroy(ctx, key); err != nil {
			log.Printf("media: destroy %s failed: %v", key, err)
		}
	}
	return p.Photos.Delete(ctx, photo.ID)
}
