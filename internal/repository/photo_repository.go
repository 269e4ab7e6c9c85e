package repository

import (
	"context"
	"database/sql"

	"photoshare/internal/model"
)

type PhotoRepo struct{ DB *sql.DB }

func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{DB: db} }

const photoColumns = "id,owner_id,public_id,url,description,transformed_url,qr_url,created_at,updated_at"

// Create inserts the photo row and its tag links in one transaction
// and returns the new photo ID.
func (r *PhotoRepo) Create(ctx context.Context, ownerID uint64, publicID, url, description string, tagIDs []uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO photos (owner_id, public_id, url, description) VALUES (?,?,?,?)",
		ownerID, publicID, url, description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO photo_tags (photo_id, tag_id) VALUES (?,?)", id, tagID); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a photo with its tags. Returns sql.ErrNoRows when
// the photo does not exist.
func (r *PhotoRepo) GetByID(ctx context.Context, id uint64) (model.Photo, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+photoColumns+" FROM photos WHERE id=? LIMIT 1", id)
	p, err := scanPhoto(row)
	if err != nil {
		return model.Photo{}, err
	}
	p.Tags, err = r.listTags(ctx, id)
	if err != nil {
		return model.Photo{}, err
	}
	return p, nil
}

// List returns a page of photos ordered by creation time, newest
// first. Tags are not loaded for list views.
func (r *PhotoRepo) List(ctx context.Context, offset, limit int) ([]model.Photo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+photoColumns+" FROM photos ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]model.Photo, 0, limit)
	for rows.Next() {
		p, err := scanPhotoRows(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// UpdateDescription changes the description. Returns sql.ErrNoRows
// when the photo does not exist.
func (r *PhotoRepo) UpdateDescription(ctx context.Context, id uint64, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE photos SET description=? WHERE id=?", description, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetTransformResult persists the transformed URL. The stale QR URL is
// cleared in the same statement: the QR encodes the previous
// transformed URL, so the pair changes together or not at all.
func (r *PhotoRepo) SetTransformResult(ctx context.Context, id uint64, transformedURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE photos SET transformed_url=?, qr_url=NULL WHERE id=?", transformedURL, id)
	return err
}

// SetQRURL persists the QR delivery URL.
func (r *PhotoRepo) SetQRURL(ctx context.Context, id uint64, qrURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE photos SET qr_url=? WHERE id=?", qrURL, id)
	return err
}

// Delete removes the photo row together with its comments and tag
// links in one transaction. Returns sql.ErrNoRows when the photo does
// not exist.
func (r *PhotoRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE photo_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM photo_tags WHERE photo_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM photos WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *PhotoRepo) listTags(ctx context.Context, photoID uint64) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.title, t.owner_id, t.created_at
		 FROM tags t JOIN photo_tags pt ON pt.tag_id = t.id
		 WHERE pt.photo_id = ? ORDER BY t.title`, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func scanPhoto(row *sql.Row) (model.Photo, error) {
	var p model.Photo
	var transformed, qr sql.NullString
	err := row.Scan(&p.ID, &p.OwnerID, &p.PublicID, &p.URL, &p.Description, &transformed, &qr, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Photo{}, err
	}
	p.TransformedURL = transformed.String
	p.QRURL = qr.String
	return p, nil
}

func scanPhotoRows(rows *sql.Rows) (model.Photo, error) {
	var p model.Photo
	var transformed, qr sql.NullString
	err := rows.Scan(&p.ID, &p.OwnerID, &p.PublicID, &p.URL, &p.Description, &transformed, &qr, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Photo{}, err
	}
	p.TransformedURL = transformed.String
	p.QRURL = qr.String
	return p, nil
}
