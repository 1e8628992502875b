package professional

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/albusdente/materiais/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := NewService(newMockRepo())
	issuer := auth.NewIssuer("test-secret", "materiais", "materiais-api", time.Hour)
	return NewHandler(svc, issuer), echo.New()
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()

	if _, err := h.svc.CreateProfessional(nil, CreateInput{Nome: "Ana", Login: "ana", Senha: "segredo"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"login":"ana","senha":"segredo"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User == nil || resp.User.Login != "ana" {
		t.Error("expected user in response")
	}
	if strings.Contains(rec.Body.String(), "senha") {
		t.Error("response must not leak the senha hash")
	}
}

func TestHandler_LoginWrongSenha(t *testing.T) {
	h, e := newTestHandler()

	if _, err := h.svc.CreateProfessional(nil, CreateInput{Nome: "Ana", Login: "ana", Senha: "segredo"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"login":"ana","senha":"errada"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestHandler_LoginMissingFields(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_CreateProfessional(t *testing.T) {
	h, e := newTestHandler()

	body := `{"nome":"Bruno Lima","funcao":"Dentista","login":"bruno","senha":"abcd","id_clinica":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/professionals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateProfessional(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Professional
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.ClinicaID == nil || *p.ClinicaID != 3 {
		t.Error("expected id_clinica 3")
	}
}
