package insights

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"insights-backend/internal/shared/util"
)

const (
	// DefaultMaxUploadBytes is the PDF size ceiling.
	DefaultMaxUploadBytes int64 = 10 << 20

	fileField        = "file"
	pdfMimeType      = "application/pdf"
	fallbackFilename = "document.pdf"
	formSlack        = 1 << 20
	maxFieldBytes    = 8 << 10
)

// UploadedDocument is an accepted upload, held in memory.
type UploadedDocument struct {
	Bytes            []byte
	MimeType         string
	SizeBytes        int64
	OriginalFilename string
}

// Upload is the result of reading one multipart request.
type Upload struct {
	Document UploadedDocument
	Fields   url.Values
}

// Intake reads PDF uploads from multipart requests. Parts are streamed so the
// file part's declared type is checked before any of its content is read, and
// nothing is spilled to disk.
type Intake struct {
	MaxBytes int64
}

func (in Intake) maxBytes() int64 {
	if in.MaxBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return in.MaxBytes
}

// Read consumes the request body. Text fields are returned alongside the
// document.
func (in Intake) Read(w http.ResponseWriter, r *http.Request) (Upload, error) {
	limit := in.maxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formSlack)

	mr, err := r.MultipartReader()
	if err != nil {
		return Upload{}, newError(ErrBadRequest, MsgFileRequired)
	}

	out := Upload{Fields: url.Values{}}
	found := false
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Upload{}, classifyReadError(err)
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		if name != fileField {
			value, err := readField(part)
			part.Close()
			if err != nil {
				return Upload{}, err
			}
			out.Fields.Add(name, value)
			continue
		}

		if found {
			part.Close()
			return Upload{}, newError(ErrBadRequest, MsgMultipleFiles)
		}
		if part.FileName() == "" {
			part.Close()
			return Upload{}, newError(ErrBadRequest, MsgFileRequired)
		}
		if !isPDF(part.Header.Get("Content-Type")) {
			part.Close()
			return Upload{}, newError(ErrUnsupportedMediaType, MsgOnlyPDF)
		}

		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		part.Close()
		if err != nil {
			return Upload{}, classifyReadError(err)
		}
		if int64(len(data)) > limit {
			return Upload{}, newError(ErrPayloadTooLarge, MsgTooLarge)
		}
		if len(data) == 0 {
			return Upload{}, newError(ErrBadRequest, MsgFileRequired)
		}

		out.Document = UploadedDocument{
			Bytes:            data,
			MimeType:         pdfMimeType,
			SizeBytes:        int64(len(data)),
			OriginalFilename: util.PDFFileName(part.FileName(), fallbackFilename),
		}
		found = true
	}

	if !found {
		return Upload{}, newError(ErrBadRequest, MsgFileRequired)
	}
	return out, nil
}

func isPDF(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, pdfMimeType)
}

func readField(part io.Reader) (string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", classifyReadError(err)
	}
	if n > maxFieldBytes {
		return "", newError(ErrBadRequest, MsgInvalidFormField)
	}
	return buf.String(), nil
}

func classifyReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return newError(ErrPayloadTooLarge, MsgTooLarge)
	}
	return newError(ErrBadRequest, MsgMalformedForm)
}
