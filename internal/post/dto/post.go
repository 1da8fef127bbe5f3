package dto

import "time"

// UploadInput is an image as received from the multipart form.
type UploadInput struct {
	Filename string
	Size     int64
	Data     []byte
}

type UploadResponse struct {
	Message string `json:"message"`
	PostID  string `json:"post_id"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

type PostOutput struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type PostListResponse struct {
	Data     []PostOutput `json:"data"`
	Total    int          `json:"total"`
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
