package dto

// PostCreateRequest holds the text fields of the multipart upload.
type PostCreateRequest struct {
	UserName string `form:"userName"`
	Email    string `form:"email"`
	TextPost string `form:"textPost"`
}

// PostListRequest payload for getPosts.
type PostListRequest struct {
	Email string `json:"email" form:"email"`
	ID    string `json:"id" form:"id"`
}

// PostIDRequest payload for endpoints addressing one post.
type PostIDRequest struct {
	ID string `json:"id" form:"id" validate:"required"`
}

// CommentCreateRequest payload for leaveComment.
type CommentCreateRequest struct {
	ID     string `json:"id" form:"id" validate:"required"`
	Author string `json:"author" form:"author"`
	Text   string `json:"text" form:"text"`
}
