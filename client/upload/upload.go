// Package upload builds multipart form bodies from the upload payload
// shapes the browser client accepts.
package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strconv"
	"strings"
)

// DefaultFieldName is the form field files are sent under.
const DefaultFieldName = "file"

// defaultFileName matches the name browsers give an unnamed blob.
const defaultFileName = "blob"

// ErrNilPayload is returned when no payload is given.
var ErrNilPayload = errors.New("upload payload must not be nil")

// Payload is one of File, Files or Object.
type Payload interface {
	payload()
}

// Content is the file portion of an Object: a File or Files.
type Content interface {
	Payload
	content()
}

// File is a single file. Reader is used when Data is nil.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

// Files is an ordered sequence of files, sent as field[0], field[1], ...
type Files []File

// Object carries file content under its File key plus scalar form fields.
type Object struct {
	File   Content
	Fields map[string]any
}

func (File) payload()   {}
func (Files) payload()  {}
func (Object) payload() {}
func (File) content()   {}
func (Files) content()  {}

// Form is an encoded multipart body. It can be encoded repeatedly.
type Form struct {
	buf         bytes.Buffer
	contentType string
	entries     []string
}

// NewForm encodes p. An empty fieldName falls back to DefaultFieldName.
func NewForm(p Payload, fieldName string) (*Form, error) {
	if p == nil {
		return nil, ErrNilPayload
	}
	if fieldName == "" {
		fieldName = DefaultFieldName
	}

	f := &Form{}
	w := multipart.NewWriter(&f.buf)

	switch v := p.(type) {
	case File:
		if err := f.writeFile(w, fieldName, v); err != nil {
			return nil, err
		}
	case Files:
		if err := f.writeFiles(w, fieldName, v); err != nil {
			return nil, err
		}
	case Object:
		switch c := v.File.(type) {
		case File:
			if err := f.writeFile(w, fieldName, c); err != nil {
				return nil, err
			}
		case Files:
			if err := f.writeFiles(w, fieldName, c); err != nil {
				return nil, err
			}
		}

		for _, k := range slices.Sorted(maps.Keys(v.Fields)) {
			s, err := formValue(v.Fields[k])
			if err != nil {
				return nil, fmt.Errorf("field[%s]: %w", k, err)
			}
			if err := w.WriteField(k, s); err != nil {
				return nil, fmt.Errorf("writing field[%s]: %w", k, err)
			}
			f.entries = append(f.entries, k)
		}
	default:
		return nil, fmt.Errorf("unsupported upload payload %T", p)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}
	f.contentType = w.FormDataContentType()

	return f, nil
}

// Encode implements client.Encoder.
func (f *Form) Encode() (io.Reader, string, int64, error) {
	return bytes.NewReader(f.buf.Bytes()), f.contentType, int64(f.buf.Len()), nil
}

// ContentType returns the multipart content type including its boundary.
func (f *Form) ContentType() string { return f.contentType }

// Len returns the encoded size in bytes.
func (f *Form) Len() int64 { return int64(f.buf.Len()) }

// Entries returns the form field names in the order they were written.
func (f *Form) Entries() []string { return slices.Clone(f.entries) }

func (f *Form) writeFiles(w *multipart.Writer, fieldName string, files Files) error {
	for i, file := range files {
		if err := f.writeFile(w, fieldName+"["+strconv.Itoa(i)+"]", file); err != nil {
			return err
		}
	}

	return nil
}

func (f *Form) writeFile(w *multipart.Writer, field string, file File) error {
	name := file.Name
	if name == "" {
		name = defaultFileName
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(field)+`"; filename="`+escapeQuotes(name)+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("creating part[%s]: %w", field, err)
	}

	switch {
	case file.Data != nil:
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("writing part[%s]: %w", field, err)
		}
	case file.Reader != nil:
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("copying part[%s]: %w", field, err)
		}
	}
	f.entries = append(f.entries, field)

	return nil
}

// formValue stringifies a scalar field. Non-scalars are sent as JSON.
func formValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
