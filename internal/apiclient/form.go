package apiclient

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"sort"
)

// File is one uploaded file inside a Form.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

// Form is a file-upload payload. Requests carrying a Form are sent as
// multipart/form-data; every other body is sent as JSON.
type Form struct {
	Fields map[string]string
	Files  []File
}

// NewForm returns an empty Form.
func NewForm() *Form {
	return &Form{Fields: make(map[string]string)}
}

// Set adds or replaces a text field.
func (f *Form) Set(name, value string) *Form {
	if f.Fields == nil {
		f.Fields = make(map[string]string)
	}
	f.Fields[name] = value
	return f
}

// AddFile attaches a file under the given form field.
func (f *Form) AddFile(field, filename string, content io.Reader) *Form {
	f.Files = append(f.Files, File{Field: field, Name: filename, Content: content})
	return f
}

// HasFiles reports whether at least one file is attached.
func (f *Form) HasFiles() bool { return f != nil && len(f.Files) > 0 }

// Encode implements Payload.
func (f *Form) Encode() (io.Reader, string, error) {
	if f == nil {
		return nil, "", errors.New("form is nil")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	// Deterministic field order keeps request bodies stable in logs and tests.
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := mw.WriteField(name, f.Fields[name]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.Files {
		if file.Field == "" {
			return nil, "", errors.New("form file has no field name")
		}
		if file.Content == nil {
			return nil, "", errors.New("form file " + file.Field + " has no content")
		}
		w, err := mw.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(w, file.Content); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
