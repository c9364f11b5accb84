package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
	"github.com/davicafu/mstask/tests/mocks"
)

func serve(v authDomain.TokenValidator, header string) (*httptest.ResponseRecorder, bool) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/guarded", RequireToken(v, zap.NewNop()), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, reached
}

func TestRequireToken_Missing(t *testing.T) {
	v := mocks.NewFakeValidator(nil)

	w, reached := serve(v, "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token provided"}`, w.Body.String())
	assert.Zero(t, v.Calls(), "el validador remoto no debe llamarse")
}

func TestRequireToken_Valid(t *testing.T) {
	v := mocks.NewFakeValidator(nil)

	w, reached := serve(v, "Bearer ok")

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Bearer ok"}, v.Seen())
}

func TestRequireToken_SameResponseForEveryFailure(t *testing.T) {
	for _, cause := range []error{authDomain.ErrTokenRejected, authDomain.ErrValidatorUnavailable, context.DeadlineExceeded} {
		t.Run(cause.Error(), func(t *testing.T) {
			w, reached := serve(mocks.NewFakeValidator(cause), "Bearer bad")

			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"msg":"Invalid token"}`, w.Body.String())
		})
	}
}
