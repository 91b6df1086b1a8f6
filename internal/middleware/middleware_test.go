package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-backoffice/internal/config"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

const testSecret = "test-secret"

func bearer(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, role, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return "Bearer " + tok.Token
}

func newProtected(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/whoami", func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
	})
	return e
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
	e := newProtected()
	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not.a.token",
		"wrong secret": "",
	}
	tok, _ := utils.NewAccessToken("other-secret", 1, model.RoleAdmin, time.Hour, time.Now())
	cases["wrong secret"] = "Bearer " + tok.Token

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	e := newProtected()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, 42, model.RoleManager))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":42`) || !strings.Contains(body, `"role":"MANAGER"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	e := newProtected(model.RoleAdmin, model.RoleManager)
	for role, want := range map[string]int{
		model.RoleAdmin:   http.StatusOK,
		model.RoleManager: http.StatusOK,
		model.RoleStaff:   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, 7, role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(zerolog.Nop()))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if _, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID)); err != nil {
		t.Fatalf("expected generated uuid, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, incoming)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != incoming {
		t.Fatalf("request id = %q, want %q", got, incoming)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "<script>")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got == "<script>" {
		t.Fatal("untrusted request id echoed back")
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(zerolog.Nop()), Recover())
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "kaboom") {
		t.Fatalf("panic value leaked to client: %s", rec.Body.String())
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	body := []byte(`{"rows":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok || status != http.StatusOK {
		t.Fatalf("decodePayload: ok=%v status=%d", ok, status)
	}
	if gotHdr.Get(echo.HeaderContentType) != echo.MIMEApplicationJSON || string(gotBody) != string(body) {
		t.Fatalf("round trip mismatch: %v %q", gotHdr, gotBody)
	}

	if _, _, _, ok := decodePayload([]byte{0, 0, 0}); ok {
		t.Fatal("short payload accepted")
	}
	if _, _, _, ok := decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0}); ok {
		t.Fatal("payload with oversized header length accepted")
	}
}

func TestCacheKeyDistinguishesProperties(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "hotel:cache", KeyStrategy: "route_query"}
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/v1/properties/:id/calendar")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/v1/properties/1/calendar?start=2024-03-01&days=14")
	b := key("/v1/properties/2/calendar?start=2024-03-01&days=14")
	reordered := key("/v1/properties/1/calendar?days=14&start=2024-03-01")
	if a == b {
		t.Fatal("different properties share a cache key")
	}
	if a != reordered {
		t.Fatal("query parameter order changed the cache key")
	}
	if !strings.HasPrefix(a, "hotel:cache:") {
		t.Fatalf("key %q lacks prefix", a)
	}
}

func TestStorableResponses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		size    int64
		control string
		want    bool
	}{
		{"ok", http.StatusOK, 10, "", true},
		{"not found", http.StatusNotFound, 10, "", false},
		{"too large", http.StatusOK, 2048, "", false},
		{"no-store", http.StatusOK, 10, "no-store", false},
		{"no-store among directives", http.StatusOK, 10, "private, No-Store", false},
		{"other directive", http.StatusOK, 10, "max-age=30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cw := &captureWriter{status: tc.status, size: tc.size, limit: 1024}
			hdr := http.Header{}
			if tc.control != "" {
				hdr.Set(echo.HeaderCacheControl, tc.control)
			}
			if got := storable(cw, hdr); got != tc.want {
				t.Fatalf("storable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.RemoteAddr = "10.0.0.9:5123"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")

	cfg := config.RateLimitConfig{Prefix: "hotel:rl"}
	cases := map[string]string{
		"ip":            "hotel:rl:ip:10.0.0.9",
		"user":          "hotel:rl:user:anon",
		"user_route":    "hotel:rl:user:anon:route:POST /v1/bookings",
		"ip_user_route": "hotel:rl:ip:10.0.0.9:user:anon:route:POST /v1/bookings",
	}
	for strategy, want := range cases {
		cfg.KeyStrategy = strategy
		if got := buildRateKey(cfg, c); got != want {
			t.Errorf("%s: key = %q, want %q", strategy, got, want)
		}
	}

	c.Set(ctxUserID, uint64(12))
	cfg.KeyStrategy = "user"
	if got := buildRateKey(cfg, c); got != "hotel:rl:user:12" {
		t.Errorf("authenticated key = %q", got)
	}
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(59), int64(0)})
	if !ok || !allowed || remaining != 59 || retry != 0 {
		t.Fatalf("got %v %d %d %v", allowed, remaining, retry, ok)
	}
	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), int64(0), "750"})
	if !ok || allowed || retry != 750 {
		t.Fatalf("got %v %d %v", allowed, retry, ok)
	}
	if _, _, _, ok := parseBucketResult("nope"); ok {
		t.Fatal("non-array result accepted")
	}
}

func TestNilRedisPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		InvalidateCache(config.CacheConfig{Enabled: true}, nil),
	)
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNoContent || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("status = %d, X-Cache = %q", rec.Code, rec.Header().Get("X-Cache"))
	}
}
