package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/steadystreamtv/storefront/internal/pkg/fulfillment"
	"github.com/steadystreamtv/storefront/internal/pkg/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutApp(t *testing.T) (*fiber.App, *memoryRepository) {
	t.Helper()

	repo := newMemoryRepository()
	svc := fulfillment.NewService(repo, &stubProvisioner{}, &stubNotifier{})
	stripeClient := payments.NewStripeClient(config.StripeConfig{SecretKey: "sk_test_x"}, "http://localhost:4000")

	app := fiber.New()
	app.Post("/checkout", NewCheckoutController(stripeClient, svc).HandleCreateCheckout)
	return app, repo
}

func TestCreateCheckout_RequiresEmail(t *testing.T) {
	app, repo := newCheckoutApp(t)

	tests := []string{
		`{}`,
		`{"email":""}`,
		`{"email":"   "}`,
		`{"email":"not-an-email"}`,
	}
	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body=%s", body)
	}

	assert.Empty(t, repo.orders)
}

func TestCreateCheckout_RejectsUnparsableBody(t *testing.T) {
	app, _ := newCheckoutApp(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
