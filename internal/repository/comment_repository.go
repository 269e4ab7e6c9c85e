package repository

import (
	"context"
	"database/sql"

	"photoshare/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and returns its ID.
func (r *CommentRepo) Create(ctx context.Context, photoID, userID uint64, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (photo_id, user_id, text) VALUES (?,?,?)",
		photoID, userID, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByPhoto returns all comments on a photo, oldest first.
func (r *CommentRepo) ListByPhoto(ctx context.Context, photoID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,photo_id,user_id,text,created_at FROM comments WHERE photo_id=? ORDER BY created_at, id",
		photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.PhotoID, &cm.UserID, &cm.Text, &cm.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (model.Comment, error) {
	var cm model.Comment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,photo_id,user_id,text,created_at FROM comments WHERE id=? LIMIT 1", id).
		Scan(&cm.ID, &cm.PhotoID, &cm.UserID, &cm.Text, &cm.CreatedAt)
	return cm, err
}

// Delete removes a comment. Returns sql.ErrNoRows when it does not exist.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
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
