package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func identifyRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Identify(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, OwnerID(c))
	})
	return r
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestIdentify(t *testing.T) {
	r := identifyRouter()

	cases := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"no identity", nil, http.StatusOK, AnonymousOwner},
		{"header fallback", map[string]string{"X-User-ID": "u-42"}, http.StatusOK, "u-42"},
		{"valid bearer", map[string]string{"Authorization": "Bearer " + signToken(t, "alice")}, http.StatusOK, "alice"},
		{"bearer beats header", map[string]string{
			"Authorization": "Bearer " + signToken(t, "alice"),
			"X-User-ID":     "u-42",
		}, http.StatusOK, "alice"},
		{"invalid bearer", map[string]string{"Authorization": "Bearer not-a-token"}, http.StatusUnauthorized, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Errorf("owner = %q, want %q", w.Body.String(), tc.wantBody)
			}
		})
	}
}
