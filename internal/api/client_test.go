package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/model"
	"kidofood-web/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripperWithError lets a test fail the transport itself.
type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newBackend(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithLocalCookies("kidofood_web"))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestGet_SuccessEnvelope(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathUserMe, r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":{"user_id":"u-1","email":"a@b.c","name":"A","type":1},"error":"Success","code":200}`)
	})

	res := c.Me(context.Background())

	require.False(t, res.IsError())
	user, ok := res.Data()
	require.True(t, ok)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, model.RoleMerchant, user.Role)
	assert.Equal(t, "Success", res.Message())
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestGet_NullPayload(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":null,"error":"Success","code":200}`)
	})

	res := c.ClaimStatus(context.Background())

	assert.False(t, res.IsError())
	require.NotNil(t, res.Response)
	_, ok := res.Data()
	assert.False(t, ok)
}

func TestGet_StructuredErrorPassesThrough(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"data":null,"error":"Item not found","code":404}`)
	})

	res := c.Item(context.Background(), "missing")

	assert.False(t, res.IsError())
	assert.Equal(t, 404, res.Response.Code)
	assert.Equal(t, "Item not found", res.Message())
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestGet_DetailEnvelope(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Session expired"}`)
	})

	res := c.Me(context.Background())

	require.True(t, res.IsError())
	assert.Nil(t, res.Response)
	assert.Equal(t, &ErrorResponse{Detail: "Session expired"}, res.Failure)
}

func TestGet_ValidationDetailIsCompacted(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail": [ {"msg": "field required"} ]}`)
	})

	res := Get[model.MultiSearch](context.Background(), c, "/api/search/")

	require.True(t, res.IsError())
	assert.Equal(t, `[{"msg":"field required"}]`, res.Failure.Detail)
}

func TestGet_NetworkFailure(t *testing.T) {
	c := NewClient("http://backend.invalid", WithHTTPClient(&http.Client{
		Transport: MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}))

	res := c.ClaimStatus(context.Background())

	assert.Nil(t, res.Response)
	assert.Equal(t, &ErrorResponse{Detail: "Unknown error"}, res.Failure)
	assert.Equal(t, 0, res.Status)
}

func TestGet_UnstructuredBody(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	res := c.Me(context.Background())

	assert.Equal(t, &ErrorResponse{Detail: UnknownError}, res.Failure)
	assert.Equal(t, http.StatusBadGateway, res.Status)
}

func TestGet_EmptyBody(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	res := c.Me(context.Background())

	assert.Equal(t, &ErrorResponse{Detail: UnknownError}, res.Failure)
}

func TestGet_ForwardsVisitorCookiesAndRequestID(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		sess, err := r.Cookie("kidofood|session")
		require.NoError(t, err)
		assert.Equal(t, "signed-value", sess.Value)

		_, err = r.Cookie("kidofood_web")
		assert.ErrorIs(t, err, http.ErrNoCookie)

		assert.Equal(t, "req-42", r.Header.Get(logger.RequestIDHeader))
		writeJSON(w, http.StatusOK, `{"data":null,"error":"Success","code":200}`)
	})

	in := httptest.NewRequest(http.MethodGet, "/orders", nil)
	in.AddCookie(&http.Cookie{Name: "kidofood|session", Value: "signed-value"})
	in.AddCookie(&http.Cookie{Name: "kidofood_web", Value: "local"})
	ctx := logger.WithRequestID(transport.WithIncoming(context.Background(), in), "req-42")

	res := c.Me(ctx)
	assert.False(t, res.IsError())
}

func TestGet_IgnoresVisitorCancellation(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":null,"error":"Success","code":200}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.ClaimStatus(ctx)
	assert.False(t, res.IsError())
}

func TestListEndpoints(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "abc", r.URL.Query().Get("cursor"))
		writeJSON(w, http.StatusOK, `{
			"data":[{"id":"i-1","name":"Nasi Goreng","price":15000,"stock":3,"type":"meal"}],
			"error":"Success","code":200,
			"page_info":{"total":1,"count":1,"per_page":5,"cursor":null}
		}`)
	})

	res := c.Items(context.Background(), ListParams{Limit: 5, Cursor: "abc"})

	items, ok := res.Data()
	require.True(t, ok)
	require.Len(t, *items, 1)
	assert.Equal(t, model.ItemMeal, (*items)[0].Type)
	require.NotNil(t, res.Response.PageInfo)
	assert.Equal(t, 1, res.Response.PageInfo.Total)
}

func TestSearchEncodesQuery(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "es teh", r.URL.Query().Get("query"))
		writeJSON(w, http.StatusOK, `{"data":{"merchants":[],"items":[{"id":"i","name":"Es Teh","price":5000}]},"error":"Success","code":200}`)
	})

	res := c.Search(context.Background(), "es teh", 0)

	found, ok := res.Data()
	require.True(t, ok)
	assert.Len(t, found.Items, 1)
}

func TestPostJSON_Claim(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body model.ClaimRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@kidofood.com", body.Email)

		writeJSON(w, http.StatusForbidden, `{"data":{"user_id":"a","email":"x","name":"Admin","type":999},"error":"User already claimed this server!","code":403}`)
	})

	res := c.Claim(context.Background(), model.ClaimRequest{Email: "admin@kidofood.com", Password: "pw"})

	assert.False(t, res.IsError())
	assert.Equal(t, 403, res.Response.Code)
	assert.Equal(t, "User already claimed this server!", res.Message())
}
