package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestAbortUnauthorized(t *testing.T) {
	c, w := newContext()

	AbortUnauthorized(c, MsgNoToken)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"No token provided"}`, w.Body.String())
}

func TestSendNotFound(t *testing.T) {
	c, w := newContext()

	SendNotFound(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Task Not Found"}`, w.Body.String())
}

func TestSendSuccess(t *testing.T) {
	c, w := newContext()

	SendSuccess(c, "ok", "task", gin.H{"id": "1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"ok","task":{"id":"1"}}`, w.Body.String())
}
