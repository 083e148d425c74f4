package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"estatehub/internal/session"
	"estatehub/pkg/utils"
)

func newRouter(m *utils.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())

	r.GET("/me", JWTAuthMiddleware(m), func(c *gin.Context) {
		p, _ := session.FromContext(c.Request.Context())
		c.String(http.StatusOK, p.Kind)
	})
	r.GET("/admin", JWTAuthMiddleware(m), RoleMiddleware(session.RoleAdmin, session.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/sellers", JWTAuthMiddleware(m), KindMiddleware(session.KindAgent, session.KindAgency), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	m := utils.NewJWTManager("secret", time.Hour, "test")
	r := newRouter(m)

	if w := do(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d", w.Code)
	}
	if w := do(r, "/me", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d", w.Code)
	}

	token, err := m.CreateToken(uuid.New(), session.KindAgent, "a@b.zm", session.RoleMember)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	w := do(r, "/me", token)
	if w.Code != http.StatusOK || w.Body.String() != session.KindAgent {
		t.Fatalf("valid token: got %d %q", w.Code, w.Body.String())
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	other := utils.NewJWTManager("other", time.Hour, "test")
	token, _ := other.CreateToken(uuid.New(), session.KindUser, "", session.RoleMember)

	r := newRouter(utils.NewJWTManager("secret", time.Hour, "test"))
	if w := do(r, "/me", token); w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d", w.Code)
	}
}

func TestRoleAndKindGuards(t *testing.T) {
	m := utils.NewJWTManager("secret", time.Hour, "test")
	r := newRouter(m)

	member, _ := m.CreateToken(uuid.New(), session.KindUser, "", session.RoleMember)
	admin, _ := m.CreateToken(uuid.New(), session.KindAdmin, "", session.RoleAdmin)
	agency, _ := m.CreateToken(uuid.New(), session.KindAgency, "", session.RoleMember)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"member on admin route", "/admin", member, http.StatusForbidden},
		{"admin on admin route", "/admin", admin, http.StatusOK},
		{"user on seller route", "/sellers", member, http.StatusForbidden},
		{"agency on seller route", "/sellers", agency, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.path, tt.token); w.Code != tt.want {
				t.Fatalf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}
