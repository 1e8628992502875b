package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/albusdente/materiais/internal/platform/auth"
	"github.com/albusdente/materiais/internal/platform/blobstore"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	repo := newMockRepo()
	svc := NewService(repo, nil, zerolog.Nop())
	store := blobstore.NewMemoryStore("https://cdn.example.com")
	return NewHandler(svc, store), repo, echo.New()
}

func asAdmin(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserRoleKey, auth.RoleAdmin)
	ctx = context.WithValue(ctx, auth.UserIDKey, uuid.NewString())
	return req.WithContext(ctx)
}

func TestHandler_ConfirmList(t *testing.T) {
	h, repo, e := newTestHandler()
	listaID := repo.seedLista(1, "filled")

	body := `{"lista_id":"` + listaID.String() + `","photo_url":"https://cdn.example.com/p.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	if err := h.ConfirmList(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if repo.listas[listaID] != "delivered" {
		t.Errorf("lista status = %q, want delivered", repo.listas[listaID])
	}
}

func TestHandler_ConfirmList_StorageFailure(t *testing.T) {
	h, repo, e := newTestHandler()
	listaID := repo.seedLista(1, "filled")
	repo.failInsert = true

	body := `{"lista_id":"` + listaID.String() + `","photo_url":"https://cdn.example.com/p.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	err := h.ConfirmList(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); strings.Contains(msg, "connection reset") {
		t.Errorf("driver detail leaked to client: %q", msg)
	}
}

func TestHandler_ConfirmList_Conflict(t *testing.T) {
	h, repo, e := newTestHandler()
	listaID := repo.seedLista(1, "delivered")

	body := `{"lista_id":"` + listaID.String() + `","photo_url":"https://cdn.example.com/p.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	err := h.ConfirmList(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_ConfirmClinic_NothingToDeliver(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"clinica_id":7,"photo_url":"https://cdn.example.com/p.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	err := h.ConfirmClinic(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_UploadPhoto(t *testing.T) {
	h, repo, e := newTestHandler()
	listaID := repo.seedLista(1, "filled")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("listaId", listaID.String())

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="entrega.png"`}
	hdr["Content-Type"] = []string{"image/png"}
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	if err := h.UploadPhoto(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp["photoUrl"], "delivery-photos/"+listaID.String()+"/") {
		t.Errorf("photoUrl = %q, want delivery-photos path", resp["photoUrl"])
	}
	if len(repo.confs) != 1 {
		t.Errorf("stub confirmations = %d, want 1", len(repo.confs))
	}
}

func TestHandler_UploadPhoto_RejectsContentType(t *testing.T) {
	h, repo, e := newTestHandler()
	listaID := repo.seedLista(1, "filled")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("listaId", listaID.String())

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="entrega.pdf"`}
	hdr["Content-Type"] = []string{"application/pdf"}
	part, _ := w.CreatePart(hdr)
	part.Write([]byte("%PDF-"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req = asAdmin(req)
	rec := httptest.NewRecorder()

	err := h.UploadPhoto(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %v", err)
	}
	if len(repo.confs) != 0 {
		t.Errorf("stub confirmations = %d, want 0", len(repo.confs))
	}
}
