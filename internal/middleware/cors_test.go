package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("exposes_list_headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", http.NoBody))

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("allow origin = %q", got)
		}
		exposed := rec.Header().Get("Access-Control-Expose-Headers")
		for _, h := range []string{"X-Request-ID", "X-Total-Count", "X-Total-Pages"} {
			if !strings.Contains(exposed, h) {
				t.Errorf("expose headers %q missing %s", exposed, h)
			}
		}
	})

	t.Run("preflight_short_circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/items", http.NoBody))

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}
