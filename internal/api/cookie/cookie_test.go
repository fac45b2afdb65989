package cookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("session-secret", time.Hour, false)

	c, rec := newContext(t)
	codec.Write(c, "sess_1")

	res := rec.Result()
	if len(res.Cookies()) != 1 {
		t.Fatalf("expected one cookie, got %d", len(res.Cookies()))
	}
	written := res.Cookies()[0]
	if written.Name != Name {
		t.Fatalf("unexpected cookie name %q", written.Name)
	}
	if !written.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if written.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie must be SameSite=Strict")
	}

	c2, _ := newContext(t, &http.Cookie{Name: Name, Value: written.Value})
	id, err := codec.Read(c2)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if id != "sess_1" {
		t.Fatalf("expected sess_1, got %q", id)
	}
}

func TestCodec_TamperedValueRejected(t *testing.T) {
	codec := NewCodec("session-secret", time.Hour, false)

	c, rec := newContext(t)
	codec.Write(c, "sess_1")
	value := rec.Result().Cookies()[0].Value

	// Swap the session ID while keeping the original signature.
	tampered := "sess_2" + value[strings.LastIndexByte(value, '.'):]
	c2, _ := newContext(t, &http.Cookie{Name: Name, Value: tampered})
	if _, err := codec.Read(c2); err == nil {
		t.Fatalf("expected tampered cookie to be rejected")
	}
}

func TestCodec_WrongSecretRejected(t *testing.T) {
	writer := NewCodec("secret-a", time.Hour, false)
	reader := NewCodec("secret-b", time.Hour, false)

	c, rec := newContext(t)
	writer.Write(c, "sess_1")

	c2, _ := newContext(t, &http.Cookie{Name: Name, Value: rec.Result().Cookies()[0].Value})
	if _, err := reader.Read(c2); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestCodec_MissingCookie(t *testing.T) {
	codec := NewCodec("session-secret", time.Hour, false)

	c, _ := newContext(t)
	if _, err := codec.Read(c); err == nil {
		t.Fatalf("expected error for missing cookie")
	}
}

func TestCodec_Clear(t *testing.T) {
	codec := NewCodec("session-secret", time.Hour, false)

	c, rec := newContext(t)
	codec.Clear(c)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected expired empty cookie, got %+v", cookies[0])
	}
}
