package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sitelens/sitelens/models"
)

type stubAnalyzer struct {
	resp *models.AnalyzeResponse
	err  error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	return s.resp, s.err
}

func newTestRouter(svc Analyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/analyze", Analyze(svc))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_Success(t *testing.T) {
	desc := "hello"
	svc := &stubAnalyzer{resp: &models.AnalyzeResponse{
		Title:     "Example",
		CMS:       "WordPress",
		Trackers:  "Google Analytics, Hotjar",
		RobotsTxt: models.RobotsUnavailable,
		MetaTags:  models.MetaTags{Description: &desc},
	}}
	w := doRequest(t, newTestRouter(svc), `{"url":"https://example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got["title"] != "Example" || got["cms"] != "WordPress" {
		t.Errorf("body = %v", got)
	}
	meta, _ := got["metaTags"].(map[string]any)
	if meta["description"] != "hello" {
		t.Errorf("metaTags = %v", meta)
	}
	if _, present := meta["keywords"]; present {
		t.Error("absent meta tag must be omitted from JSON, not serialized blank")
	}
}

func TestAnalyzeHandler_InvalidURL(t *testing.T) {
	svc := &stubAnalyzer{err: models.NewAnalysisError(models.ErrCodeInvalidInput, "invalid url", nil)}
	w := doRequest(t, newTestRouter(svc), `{"url":"nonsense"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var got models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.Error != "unacceptable" || got.Message != "Url is invalid" {
		t.Errorf("body = %+v, want unacceptable / Url is invalid", got)
	}
}

func TestAnalyzeHandler_MissingURL(t *testing.T) {
	w := doRequest(t, newTestRouter(&stubAnalyzer{}), `{}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestAnalyzeHandler_MalformedBody(t *testing.T) {
	w := doRequest(t, newTestRouter(&stubAnalyzer{}), `{"url": `)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestAnalyzeHandler_CatastrophicFailure(t *testing.T) {
	svc := &stubAnalyzer{err: models.NewAnalysisError(models.ErrCodeBrowserCrash, "failed to launch browser", nil)}
	w := doRequest(t, newTestRouter(svc), `{"url":"https://example.com"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var got models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.Error == "" {
		t.Error("catastrophic response must carry a human-readable cause")
	}
}
