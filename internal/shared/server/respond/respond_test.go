package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"insights-backend/internal/shared/telemetry"
)

func TestErrorEnvelopeAndLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("requestId", "req-1")
		Error(c, http.StatusConflict, "conflict", "An insight with this title already exists", nil)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["message"] != "An insight with this title already exists" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if _, ok := body["details"]; ok {
		t.Fatalf("expected details to be omitted, got %v", body["details"])
	}
	if !strings.Contains(logs.String(), `"code":"conflict"`) || !strings.Contains(logs.String(), `"request_id":"req-1"`) {
		t.Fatalf("expected error log with code and request id, got %s", logs.String())
	}
}

func TestJSONEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		JSON(c, http.StatusCreated, "created", gin.H{"id": "abc"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Message != "created" || body.Data["id"] != "abc" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}
