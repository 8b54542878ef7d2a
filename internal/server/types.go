package server

import "github.com/rezonia/danfe-zpl/internal/processor"

// RenderResponse is the JSON form of the render endpoint
type RenderResponse struct {
	ZPL       string `json:"zpl"`
	Summary   string `json:"summary"`
	AccessKey string `json:"access_key"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	*processor.Info
}

// FilesResponse is the response for the files endpoint
type FilesResponse struct {
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// FindResponse is the response for a files lookup by code
type FindResponse struct {
	Code string `json:"code"`
	Path string `json:"path"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}
