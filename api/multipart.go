package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

type formField struct {
	name  string
	value string
}

// buildMultipart encodes form fields plus at most one of file or imageURL.
// The backend rejects requests carrying both, so the caller must pick one; an
// imageURL rides along as an ordinary field named imageUrl. fileField names
// the file part, which differs per endpoint.
func buildMultipart(fields []formField, fileField string, file *Upload, imageURL string) (contentType string, body []byte, err error) {
	if file != nil && imageURL != "" {
		return "", nil, fmt.Errorf("file and image URL are mutually exclusive")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return "", nil, fmt.Errorf("write form field %s: %w", field.name, err)
		}
	}

	if imageURL != "" {
		if err := writer.WriteField("imageUrl", imageURL); err != nil {
			return "", nil, fmt.Errorf("write form field imageUrl: %w", err)
		}
	}

	if file != nil {
		part, err := writer.CreateFormFile(fileField, file.Filename)
		if err != nil {
			return "", nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return "", nil, fmt.Errorf("write form file: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", nil, fmt.Errorf("finish multipart body: %w", err)
	}

	return writer.FormDataContentType(), buf.Bytes(), nil
}
