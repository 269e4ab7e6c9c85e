package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare/internal/auth"
	"photoshare/internal/media"
	"photoshare/internal/model"
)

type fakeMedia struct {
	uploads       []string // public ids passed to Upload
	remoteUploads []string // public ids passed to UploadRemote
	destroyed     []string // public ids passed to Destroy
	uploadErr     error
	remoteErr     error
	destroyErr    error
}

func (f *fakeMedia) Upload(_ context.Context, _ []byte, publicID string, _ bool) (*media.UploadResult, error) {
	f.uploads = append(f.uploads, publicID)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &media.UploadResult{PublicID: publicID, SecureURL: "https://cdn.test/" + publicID}, nil
}

func (f *fakeMedia) UploadRemote(_ context.Context, _ string, publicID string) (*media.UploadResult, error) {
	f.remoteUploads = append(f.remoteUploads, publicID)
	if f.remoteErr != nil {
		return nil, f.remoteErr
	}
	return &media.UploadResult{PublicID: publicID}, nil
}

func (f *fakeMedia) Destroy(_ context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return f.destroyErr
}

func (f *fakeMedia) BuildURL(publicID string, ops []media.PrimitiveOp) string {
	if encoded := media.EncodeOps(ops); encoded != "" {
		return "https://cdn.test/" + encoded + "/" + publicID + ".png"
	}
	return "https://cdn.test/" + publicID + ".png"
}

func (f *fakeMedia) TransformKey(publicID string) string { return "tr/" + publicID }

type fakeStore struct {
	transformedURL string
	transformSets  int
	qrURL          string
	qrSets         int
	deleted        []uint64
	err            error
}

func (f *fakeStore) SetTransformResult(_ context.Context, _ uint64, url string) error {
	if f.err != nil {
		return f.err
	}
	f.transformedURL = url
	f.transformSets++
	return nil
}

func (f *fakeStore) SetQRURL(_ context.Context, _ uint64, url string) error {
	if f.err != nil {
		return f.err
	}
	f.qrURL = url
	f.qrSets++
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func testPhoto() model.Photo {
	return model.Photo{ID: 7, OwnerID: 1, PublicID: "abc123", URL: "https://cdn.test/abc123.png"}
}

func owner() model.User {
	return model.User{ID: 1, Email: "a@x.com", Roles: auth.RoleSet{auth.RoleUser}, IsActive: true}
}

func admin() model.User {
	return model.User{ID: 99, Email: "root@x.com", Roles: auth.RoleSet{auth.RoleAdministrator}, IsActive: true}
}

func stranger() model.User {
	return model.User{ID: 2, Email: "b@x.com", Roles: auth.RoleSet{auth.RoleUser}, IsActive: true}
}

func resizeOps() []media.PrimitiveOp {
	return media.Compose(media.TransformRequest{
		Resize: media.ResizeFilter{UseFilter: true, Fill: true, Height: 300, Width: 300},
	})
}

func TestApplyPersistsTransformedURL(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	url, err := p.Apply(context.Background(), testPhoto(), resizeOps())
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/g_auto,h_300,w_300,c_fill/abc123.png", url)
	assert.Equal(t, []string{"abc123"}, m.remoteUploads)
	assert.Equal(t, url, s.transformedURL)
	assert.Equal(t, 1, s.transformSets)
}

func TestApplyEmptyOps(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	_, err := p.Apply(context.Background(), testPhoto(), nil)
	assert.ErrorIs(t, err, ErrNoOps)
	assert.Empty(t, m.remoteUploads)
	assert.Zero(t, s.transformSets)
}

func TestApplyMediaFailureLeavesStoreUntouched(t *testing.T) {
	m := &fakeMedia{remoteErr: errors.New("host down")}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	_, err := p.Apply(context.Background(), testPhoto(), resizeOps())
	assert.Error(t, err)
	assert.Zero(t, s.transformSets)
}

func TestPublishQR(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	photo := testPhoto()
	photo.TransformedURL = "https://cdn.test/e_cartoonify/abc123.png"

	url, err := p.PublishQR(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123_qr"}, m.uploads)
	assert.Equal(t, "https://cdn.test/c_fill,h_250,w_250/abc123_qr.png", url)
	assert.Equal(t, url, s.qrURL)
}

func TestPublishQRWithoutTransform(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	_, err := p.PublishQR(context.Background(), testPhoto())
	assert.ErrorIs(t, err, ErrNoTransform)
	// The media host must not be contacted at all.
	assert.Empty(t, m.uploads)
	assert.Zero(t, s.qrSets)
}

func TestRemoveByOwner(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	err := p.Remove(context.Background(), owner(), testPhoto())
	require.NoError(t, err)

	// Base, transform, QR, in that order.
	assert.Equal(t, []string{"abc123", "tr/abc123", "abc123_qr"}, m.destroyed)
	assert.Equal(t, []uint64{7}, s.deleted)
}

func TestRemoveByAdministrator(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	err := p.Remove(context.Background(), admin(), testPhoto())
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, s.deleted)
}

func TestRemoveByStrangerDenied(t *testing.T) {
	m := &fakeMedia{}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	err := p.Remove(context.Background(), stranger(), testPhoto())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	// Neither the artifacts nor the row were touched.
	assert.Empty(t, m.destroyed)
	assert.Empty(t, s.deleted)
}

func TestRemoveToleratesDestroyFailures(t *testing.T) {
	m := &fakeMedia{destroyErr: errors.New("host down")}
	s := &fakeStore{}
	p := NewPublisher(m, s)

	err := p.Remove(context.Background(), owner(), testPhoto())
	require.NoError(t, err)

	// All three deletions were attempted and the row still went away.
	assert.Len(t, m.destroyed, 3)
	assert.Equal(t, []uint64{7}, s.deleted)
}

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(owner(), 1))
	assert.True(t, CanMutate(admin(), 1))
	assert.False(t, CanMutate(stranger(), 1))
}
