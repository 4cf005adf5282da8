package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	other, err := GenerateJWTSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)

	_, err = GenerateSecret(0)
	assert.Error(t, err)
}

func TestParseUserAgent(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		info := ParseUserAgent("")
		assert.Equal(t, "unknown", info.DeviceType)
	})

	t.Run("Desktop", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "desktop", info.DeviceType)
		assert.Contains(t, info.Browser, "Chrome")
		assert.False(t, info.IsBot)
	})

	t.Run("Mobile", func(t *testing.T) {
		info := ParseUserAgent("Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36")
		assert.Equal(t, "mobile", info.DeviceType)
	})

	t.Run("Bot", func(t *testing.T) {
		info := ParseUserAgent("Googlebot/2.1 (+http://www.google.com/bot.html)")
		assert.True(t, info.IsBot)
	})
}

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"RealIPHeader", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"ForwardedSkipsPrivate", map[string]string{"X-Forwarded-For": "10.0.0.4, 198.51.100.23"}, "198.51.100.23"},
		{"ForwardedAllPrivate", map[string]string{"X-Forwarded-For": "10.0.0.4, 192.168.1.9"}, "10.0.0.4"},
		{"RemoteAddr", nil, "192.0.2.1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.expected, GetRealIP(c))
		})
	}
}
