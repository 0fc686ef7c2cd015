package auth_test

import (
	"net/http/httptest"
	"testing"

	"chainflow/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: key}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"Disabled", "", "", fiber.StatusOK},
		{"Valid", "secret", "secret", fiber.StatusOK},
		{"Missing", "secret", "", fiber.StatusUnauthorized},
		{"Wrong", "secret", "guess", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
