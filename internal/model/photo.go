package model

import "time"

// Photo represents a row in the `photos` table. PublicID is the stable
// key under which the external media host stores the asset and every
// derived artifact; it is assigned once at creation and never changes.
// TransformedURL and QRURL are empty until the corresponding artifact
// has been published.
type Photo struct {
	ID             uint64    `json:"id"`
	OwnerID        uint64    `json:"owner_id"`
	PublicID       string    `json:"public_id"`
	URL            string    `json:"url"`
	Description    string    `json:"description"`
	TransformedURL string    `json:"transformed_url,omitempty"`
	QRURL          string    `json:"qr_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Tags           []Tag     `json:"tags,omitempty"`
}

// Tag represents a row in the `tags` table. Titles are unique; photos
// and tags are linked through the photo_tags join table.
type Tag struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a row in the `comments` table. Comments are
// cascade-deleted with their photo.
type Comment struct {
	ID        uint64    `json:"id"`
	PhotoID   uint64    `json:"photo_id"`
	UserID    uint64    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
