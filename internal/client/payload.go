package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"

	"github.com/safar/artprint/internal/models"
)

// Payload is a request body together with its content type.
type Payload interface {
	encode() (body io.Reader, contentType string, err error)
}

type jsonPayload struct {
	v any
}

// JSON sends v as a flat JSON document.
func JSON(v any) Payload {
	return jsonPayload{v: v}
}

func (p jsonPayload) encode() (io.Reader, string, error) {
	data, err := json.Marshal(p.v)
	if err != nil {
		return nil, "", fmt.Errorf("encode json payload: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// Field is one ordered form field.
type Field struct {
	Name  string
	Value string
}

type multipartPayload struct {
	fields    []Field
	fileField string
	file      *models.ImageFile
}

// Multipart sends fields, plus file under fileField when file is non-nil, as multipart/form-data.
func Multipart(fields []Field, fileField string, file *models.ImageFile) Payload {
	return multipartPayload{fields: fields, fileField: fileField, file: file}
}

func (p multipartPayload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}

	if p.file != nil {
		part, err := w.CreateFormFile(p.fileField, filepath.Base(p.file.Name))
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, p.file.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// productPayload encodes a product form. Without an image file the same fields go out as JSON.
func productPayload(in models.ProductInput) Payload {
	if in.File == nil {
		doc := map[string]any{
			"ProductName": in.Name,
			"Category":    in.Category,
			"Price":       json.Number(in.Price.String()),
			"Size":        in.Size,
			"Quantity":    in.Quantity,
		}
		if in.Image != nil && in.Image.URL != "" {
			doc["imageUrl"] = in.Image.URL
			if in.Image.CloudinaryID != "" {
				doc["cloudinary_id"] = in.Image.CloudinaryID
			}
		}
		return JSON(doc)
	}

	fields := []Field{
		{Name: "ProductName", Value: in.Name},
		{Name: "Category", Value: in.Category},
		{Name: "Price", Value: in.Price.String()},
		{Name: "Size", Value: strconv.Itoa(in.Size)},
		{Name: "Quantity", Value: strconv.Itoa(in.Quantity)},
	}
	if in.Image != nil && in.Image.URL != "" {
		fields = append(fields, Field{Name: "imageUrl", Value: in.Image.URL})
		if in.Image.CloudinaryID != "" {
			fields = append(fields, Field{Name: "cloudinary_id", Value: in.Image.CloudinaryID})
		}
	}
	return Multipart(fields, "image", in.File)
}
