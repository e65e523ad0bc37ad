package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type FileDataAccess struct {
	client *Client
}

func NewFileDataAccess(client *Client) *FileDataAccess {
	return &FileDataAccess{client: client}
}

// Upload posts r as a multipart "file" field.
func (da *FileDataAccess) Upload(ctx context.Context, filename string, r io.Reader) (*UploadedFile, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("file client not configured")
	}
	if r == nil {
		return nil, fmt.Errorf("file content is required")
	}

	resp, err := da.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/files/upload",
		upload: &upload{field: "file", filename: filename, reader: r},
	})
	if err != nil {
		return nil, err
	}

	var file UploadedFile
	if err := decodeSuccessResponse(resp, &file); err != nil {
		return nil, err
	}
	if file.URL == "" && file.ID.IsZero() {
		return nil, malformed(resp.Op, "upload response has no url")
	}

	return &file, nil
}
