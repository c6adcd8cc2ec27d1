package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHelpers(t *testing.T) {
	t.Run("Success_InjectAndRetrieve", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		ctx := WithIncoming(context.Background(), req)

		assert.Equal(t, req, IncomingFrom(ctx))
	})

	t.Run("Empty_Context_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, IncomingFrom(context.Background()))
	})
}

func TestForwardCookies(t *testing.T) {
	in := httptest.NewRequest(http.MethodGet, "/orders", nil)
	in.AddCookie(&http.Cookie{Name: "kidofood|session", Value: "signed"})
	in.AddCookie(&http.Cookie{Name: "kidofood_web", Value: "local"})
	ctx := WithIncoming(context.Background(), in)

	out, err := http.NewRequest(http.MethodGet, "http://backend/api/user/me", nil)
	require.NoError(t, err)

	ForwardCookies(ctx, out, "kidofood_web")

	c, err := out.Cookie("kidofood|session")
	require.NoError(t, err)
	assert.Equal(t, "signed", c.Value)

	_, err = out.Cookie("kidofood_web")
	assert.ErrorIs(t, err, http.ErrNoCookie)
}

func TestForwardCookies_NoIncoming(t *testing.T) {
	out, err := http.NewRequest(http.MethodGet, "http://backend/", nil)
	require.NoError(t, err)

	ForwardCookies(context.Background(), out)

	assert.Empty(t, out.Cookies())
}

func TestMiddleware(t *testing.T) {
	var got *http.Request
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IncomingFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "/", got.URL.Path)
}
