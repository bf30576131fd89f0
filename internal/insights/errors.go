package insights

import "errors"

var (
	ErrBadRequest           = errors.New("bad request")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrInvalidDocument      = errors.New("invalid document")
	ErrEmptyDocument        = errors.New("empty document")
	ErrConflict             = errors.New("conflict")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
)

// User-facing messages.
const (
	MsgFileRequired     = "PDF file is required"
	MsgOnlyPDF          = "Only PDF files are allowed"
	MsgTooLarge         = "File size exceeds the upload limit"
	MsgInvalidDocument  = "Invalid PDF file or corrupted content"
	MsgEmptyDocument    = "PDF appears to be empty or contains no readable text"
	MsgDuplicateTitle   = "An insight with this title already exists"
	MsgNotPublished     = "This insight is not published"
	MsgInsightNotFound  = "Insight not found"
	MsgPDFNotFound      = "PDF not found for this insight"
	MsgInternal         = "Internal server error"
	MsgInvalidDate      = "publishDate must be an ISO-8601 date"
	MsgMultipleFiles    = "Only one PDF file may be uploaded"
	MsgInvalidFormField = "Invalid form fields"
	MsgMalformedForm    = "Malformed multipart request"
)

// Error pairs a sentinel kind with the message shown to callers.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the caller-facing message for err, or MsgInternal when err
// carries none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return MsgInternal
}
