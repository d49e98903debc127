package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubParser map[string]uint

func (s stubParser) ParseToken(raw string) (uint, error) {
	if id, ok := s[raw]; ok {
		return id, nil
	}
	return 0, errors.New("invalid")
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secret", RequireAdmin(stubParser{"good": 7}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": c.GetUint(AdminIDKey)})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("got %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != `{"admin":7}` {
				t.Fatalf("body: %s", w.Body.String())
			}
		})
	}
}
