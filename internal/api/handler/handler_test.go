package handler

import (
	"Slipboard/internal/api/config"
	"Slipboard/internal/api/dto"
	"Slipboard/internal/pkg/live"
	"Slipboard/internal/pkg/response"
	"Slipboard/internal/service"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSlipService struct {
	scanned int
}

func (s *stubSlipService) ScanSlip(_ context.Context, _ uint64, file io.Reader) (*dto.SlipSourceDTO, error) {
	s.scanned++
	_, _ = io.Copy(io.Discard, file)
	return &dto.SlipSourceDTO{Outcome: "not_slip"}, nil
}

func (s *stubSlipService) ImportSlip(context.Context, uint64, *dto.ImportSlipReq) (*dto.SlipSourceDTO, error) {
	return nil, service.ErrUnsupportedBookmaker
}

func (s *stubSlipService) GenerateSlip(context.Context, uint64, *dto.GenerateSlipReq) (*dto.SlipSourceDTO, error) {
	return nil, service.ErrUpstreamUnavailable
}

func (s *stubSlipService) DeleteSlip(context.Context, uint64, uint64) error {
	return service.ErrSlipNotFound
}

func withUser(id uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var out dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func multipartFile(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "slip.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(bytes.Repeat([]byte{1}, size))
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func TestScanSlipSizeLimit(t *testing.T) {
	svc := &stubSlipService{}
	h := NewSlipHandler(svc, nil, 1024)
	r := gin.New()
	r.POST("/scan", withUser(1), h.ScanSlip)

	body, ct := multipartFile(t, 2048)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	if res := decode(t, w); res.Code != response.BadRequest || res.Message != service.ErrFileTooLarge.Error() {
		t.Errorf("oversized upload = %+v", res)
	}

	body, ct = multipartFile(t, 512)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)
	if res := decode(t, w); res.Code != response.Ok || svc.scanned != 1 {
		t.Errorf("small upload = %+v, scanned %d", res, svc.scanned)
	}
}

func TestSlipHandlerErrorCodes(t *testing.T) {
	h := NewSlipHandler(&stubSlipService{}, nil, 1024)
	r := gin.New()
	r.POST("/import", withUser(1), h.ImportSlip)
	r.POST("/generate", withUser(1), h.GenerateSlip)
	r.DELETE("/slips/:slip_id", withUser(1), h.DeleteSlip)

	tests := []struct {
		method, path, body string
		code               int
	}{
		{http.MethodPost, "/import", `{"bookmaker":"acme","code":"X1"}`, service.BadRequest},
		{http.MethodPost, "/import", `{"bookmaker":"acme"}`, service.BadRequest},
		{http.MethodPost, "/import", `not json`, service.BadRequest},
		{http.MethodPost, "/generate", `{"target_odds":"5"}`, service.ServiceUnavailable},
		{http.MethodPost, "/generate", `{"target_odds":"5","risk":"wild"}`, service.BadRequest},
		{http.MethodDelete, "/slips/7", ``, service.NotFound},
		{http.MethodDelete, "/slips/abc", ``, service.BadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s %s http status = %d", tt.method, tt.path, w.Code)
		}
		if res := decode(t, w); res.Code != tt.code {
			t.Errorf("%s %s %s code = %d, want %d", tt.method, tt.path, tt.body, res.Code, tt.code)
		}
	}
}

func TestFollowSelf(t *testing.T) {
	h := NewUserFollowHandler(service.NewUserFollowService(nil, nil, nil, nil))
	r := gin.New()
	r.POST("/follow/:following_id", withUser(3), h.Follow)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/follow/3", nil))
	if res := decode(t, w); res.Code != service.BadRequest || res.Message != service.ErrUserFollowSelf.Error() {
		t.Errorf("self follow = %+v", res)
	}
}

func TestMarkReadValidatesID(t *testing.T) {
	h := NewSysBoxHandler(nil)
	r := gin.New()
	r.POST("/read", withUser(1), h.MarkRead)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/read", strings.NewReader(`{"msgId":"nothex"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if res := decode(t, w); res.Code != response.BadRequest {
		t.Errorf("invalid msgId = %+v", res)
	}
}

func TestParseDocs(t *testing.T) {
	h := NewWsHandler(nil, config.LiveConfig{MaxDocs: 3}, nil)
	tests := []struct {
		query string
		want  []string
		ok    bool
	}{
		{"slips=1,2&users=9", []string{live.SlipDoc(1), live.SlipDoc(2), live.UserDoc(9)}, true},
		{"slips=1,1", []string{live.SlipDoc(1)}, true},
		{"", nil, false},
		{"slips=1,x", nil, false},
		{"slips=0", nil, false},
		{"slips=1,2,3&users=4", nil, false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/live?"+tt.query, nil)
		got, ok := h.parseDocs(c)
		if ok != tt.ok || strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseDocs(%q) = %v, %v; want %v, %v", tt.query, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConnectRequiresToken(t *testing.T) {
	h := NewWsHandler(nil, config.LiveConfig{MaxDocs: 3}, nil)
	r := gin.New()
	r.GET("/live", h.Connect)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live?slips=1", nil))
	if res := decode(t, w); res.Code != service.Unauthorized {
		t.Errorf("missing token = %+v", res)
	}
}
