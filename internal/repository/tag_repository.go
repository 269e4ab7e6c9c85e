package repository

import (
	"context"
	"database/sql"
	"strings"

	"photoshare/internal/model"
)

type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

const tagColumns = "id,title,owner_id,created_at"

// FindOrCreate returns the tag with the given title, inserting it if
// missing. Two requests racing on the same new title both succeed: the
// loser of the insert race hits the unique constraint and re-reads the
// winner's row.
func (r *TagRepo) FindOrCreate(ctx context.Context, title string, ownerID uint64) (model.Tag, error) {
	title = strings.TrimSpace(title)

	t, err := r.getByTitle(ctx, title)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return model.Tag{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tags (title, owner_id) VALUES (?,?)", title, ownerID)
	if err != nil {
		if isDuplicate(err) {
			return r.getByTitle(ctx, title)
		}
		return model.Tag{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return r.getByID(ctx, uint64(id))
}

// List returns a page of tags ordered by title.
func (r *TagRepo) List(ctx context.Context, offset, limit int) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags ORDER BY title LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]model.Tag, 0, limit)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetByID fetches a tag by id.
func (r *TagRepo) GetByID(ctx context.Context, id uint64) (model.Tag, error) {
	return r.getByID(ctx, id)
}

// UpdateTitle renames a tag. A collision with an existing title
// surfaces as ErrTagExists; a missing tag as sql.ErrNoRows.
func (r *TagRepo) UpdateTitle(ctx context.Context, id uint64, title string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tags SET title=? WHERE id=?", strings.TrimSpace(title), id)
	if err != nil {
		if isDuplicate(err) {
			return ErrTagExists
		}
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

// Delete removes a tag and its photo links in one transaction.
func (r *TagRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM photo_tags WHERE tag_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id=?", id)
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

func (r *TagRepo) getByTitle(ctx context.Context, title string) (model.Tag, error) {
	var t model.Tag
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE title=? LIMIT 1", title).
		Scan(&t.ID, &t.Title, &t.OwnerID, &t.CreatedAt)
	return t, err
}

func (r *TagRepo) getByID(ctx context.Context, id uint64) (model.Tag, error) {
	var t model.Tag
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Title, &t.OwnerID, &t.CreatedAt)
	return t, err
}
