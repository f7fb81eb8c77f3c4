package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"heritage/backend"
	"heritage/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"S", "M", "Custom Fit"}, SplitList(" S, M,, Custom Fit ,M"))
	assert.Equal(t, []string{}, SplitList(""))
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("true"))
	assert.True(t, ParseBool(" TRUE "))
	assert.False(t, ParseBool("yes"))
	assert.False(t, ParseBool(""))
}

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/orders?page=-3&q=%20ayesha%20", nil)
	opts := ParseQueryOptions(r)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, "ayesha", opts.Search)

	r = httptest.NewRequest(http.MethodGet, "/api/products?search=silk&page=2&sort=name", nil)
	opts = ParseQueryOptions(r)
	assert.Equal(t, QueryOptions{Page: 2, Search: "silk", Sort: "name"}, opts)
}

func TestBackendStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&backend.APIError{Status: 401, Message: "expired"}, http.StatusUnauthorized},
		{fmt.Errorf("get: %w", &backend.APIError{Status: 404}), http.StatusNotFound},
		{&backend.APIError{Status: 500}, http.StatusBadGateway},
		{fmt.Errorf("list: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("x: %w", models.ErrNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, BackendStatus(c.err), c.err.Error())
	}
}

func TestRespondWithBackendError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithBackendError(rec, &backend.APIError{Status: 409, Message: "Out of stock"}, "Failed")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Out of stock"}`, rec.Body.String())
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, NewLogger("verbose", false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, NewLogger("DEBUG", false).GetLevel())
}
