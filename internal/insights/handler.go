package insights

import (
	"errors"
	"mime"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"insights-backend/internal/shared/metrics"
	"insights-backend/internal/shared/server/middleware"
	"insights-backend/internal/shared/server/respond"
	"insights-backend/internal/shared/telemetry"
)

const msgCreated = "PDF uploaded and insight created successfully"

var publishDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc        *Service
	Intake     Intake
	Production bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, intake Intake, production bool) *Handler {
	return &Handler{Svc: svc, Intake: intake, Production: production}
}

// RegisterRoutes attaches insight routes to the router group. uploadGuards
// run before the upload handler (authentication, role checks, rate limits).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadGuards ...gin.HandlerFunc) {
	rg.GET("/insights", h.list)
	rg.GET("/insights/:id", h.get)
	rg.GET("/insights/:id/pdf", h.pdf)

	upload := append(append([]gin.HandlerFunc{}, uploadGuards...), h.upload)
	rg.POST("/insights/upload-pdf", upload...)
}

type uploadForm struct {
	Category      string `form:"category" binding:"omitempty,max=100"`
	FeaturedImage string `form:"featuredImage" binding:"omitempty,url"`
	PublishDate   string `form:"publishDate"`
}

func (h *Handler) upload(c *gin.Context) {
	up, err := h.Intake.Read(c.Writer, c.Request)
	if err != nil {
		h.fail(c, err)
		return
	}

	var form uploadForm
	if err := binding.MapFormWithTag(&form, up.Fields, "form"); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", MsgInvalidFormField, nil)
		return
	}
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(err), nil)
		return
	}
	publishDate, err := parsePublishDate(form.PublishDate)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", MsgInvalidDate, nil)
		return
	}

	ins, err := h.Svc.Ingest(c.Request.Context(), up.Document, IngestOptions{
		Category:      form.Category,
		FeaturedImage: form.FeaturedImage,
		PublishDate:   publishDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(middleware.InsightIDKey, ins.ID)
	respond.JSON(c, http.StatusCreated, msgCreated, toResponse(ins))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InsightIDKey, id)

	ins, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(ins))
}

func (h *Handler) pdf(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.InsightIDKey, id)

	file, err := h.Svc.GetPDF(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	disposition := "inline"
	if download, err := strconv.ParseBool(c.Query("download")); err == nil && download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", contentDisposition(disposition, file.Filename))
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))
	metrics.IncPDFServed(disposition)
	c.Data(http.StatusOK, pdfMimeType, file.Data)
}

// contentDisposition quotes the filename, switching to the RFC 2231 form for
// names outside ASCII.
func contentDisposition(disposition, filename string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return disposition
}

func (h *Handler) list(c *gin.Context) {
	limit := DefaultListLimit
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), ListFilter{
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]InsightResponse, 0, len(items))
	for _, ins := range items {
		resp = append(resp, toSummary(ins))
	}
	respond.OK(c, resp)
}

// fail maps err to the failure envelope. Unclassified errors become a generic
// 500; their detail only reaches the log.
func (h *Handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}
		if !h.Production {
			fields["stack"] = string(debug.Stack())
		}
		telemetry.Error("insight.internal_error", fields)
		respond.Error(c, status, code, MsgInternal, nil)
		return
	}
	respond.Error(c, status, code, Message(err), nil)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusBadRequest, "unsupported_media_type"
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusBadRequest, "payload_too_large"
	case errors.Is(err, ErrInvalidDocument):
		return http.StatusBadRequest, "invalid_document"
	case errors.Is(err, ErrEmptyDocument):
		return http.StatusBadRequest, "empty_document"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func parsePublishDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range publishDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, newError(ErrBadRequest, MsgInvalidDate)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidFormField
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "url":
		return "featuredImage must be a valid URL"
	case "max":
		return strings.ToLower(fe.Field()[:1]) + fe.Field()[1:] + " is too long"
	default:
		return MsgInvalidFormField
	}
}
