package domain

import "time"

// PostStatus is the moderation state of a post.
type PostStatus int

const (
	PostStatusPending  PostStatus = 0
	PostStatusApproved PostStatus = 1
)

// PostImage is the uploaded picture stored inline with the post.
type PostImage struct {
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"img"`
}

// Comment is appended to a post; comments are never edited or removed.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Post is a captioned image awaiting or past moderation.
type Post struct {
	ID        string     `json:"_id"`
	UserName  string     `json:"userName"`
	Email     string     `json:"email"`
	TextPost  string     `json:"textPost"`
	Image     *PostImage `json:"image,omitempty"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Comments  []Comment  `json:"comments"`
}

// PostFilter narrows a post listing.
type PostFilter struct {
	// ApprovedExcludingEmail restricts to approved posts written by anyone
	// other than ExcludeEmail.
	ApprovedExcludingEmail bool
	ExcludeEmail           string
	ID                     string
	OmitImage              bool
}
