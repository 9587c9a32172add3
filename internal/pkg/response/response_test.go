package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/flashreport/api/internal/pkg/apperror"
)

func record(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	return w
}

func TestEnvelopeShape(t *testing.T) {
	w := record(func(c *gin.Context) {
		OK(c, "All good", gin.H{"value": 42})
	})
	require.Equal(t, 200, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(200), body["statusCode"])
	require.Equal(t, "All good", body["message"])
	require.Equal(t, map[string]interface{}{"value": float64(42)}, body["data"])
}

func TestEnvelopeOmitsNilData(t *testing.T) {
	w := record(func(c *gin.Context) {
		OK(c, "Done", nil)
	})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	_, present := body["data"]
	require.False(t, present)
}

func TestFromErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", apperror.Wrap(apperror.ErrUnauthorized, "no token"), 401},
		{"forbidden", apperror.Wrap(apperror.ErrForbidden, "admins only"), 403},
		{"not found", apperror.Wrap(apperror.ErrNotFound, "Report not found"), 404},
		{"conflict", apperror.Wrap(apperror.ErrConflict, "Username is already taken"), 409},
		{"validation", apperror.Wrap(apperror.ErrValidation, "Title is required"), 400},
		{"invariant", apperror.Wrap(apperror.ErrInvariant, "Cannot demote the last admin user"), 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := record(func(c *gin.Context) {
				FromError(c, tc.err)
			})
			require.Equal(t, tc.code, w.Code)
		})
	}
}

// Unknown errors must not leak their message to the client.
func TestFromErrorHidesInternalDetail(t *testing.T) {
	w := record(func(c *gin.Context) {
		FromError(c, json.Unmarshal([]byte("{"), &struct{}{}))
	})
	require.Equal(t, 500, w.Code)
	require.NotContains(t, w.Body.String(), "unexpected end")
}
