package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func requestWith(headers map[string]string, remoteAddr string) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestClientIPPrefersForwardingHeaders(t *testing.T) {
	c := requestWith(map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:9999")
	assert.Equal(t, "203.0.113.7", clientIP(c))

	c = requestWith(map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.2:9999")
	assert.Equal(t, "203.0.113.9", clientIP(c))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	c := requestWith(nil, "192.0.2.4:51234")
	assert.Equal(t, "192.0.2.4", clientIP(c))
}
