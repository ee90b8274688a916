package api

import "github.com/starford/scrapnote/internal/models"

// FilesResponse is the body of GET /api/files.
type FilesResponse struct {
	Files []models.Item `json:"files"`
}

// FileContentResponse is the body of GET /api/file/{name}.
type FileContentResponse struct {
	Content string `json:"content"`
}

// SaveFileRequest is the body of POST /api/file/{name}.
type SaveFileRequest struct {
	Content string `json:"content"`
}
