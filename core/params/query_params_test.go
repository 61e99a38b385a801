package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewQueryParams(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{query: "", wantPage: 1, wantSize: 20},
		{query: "?page=3&limit=10", wantPage: 3, wantSize: 10},
		{query: "?page=-1&limit=abc", wantPage: 1, wantSize: 20},
		{query: "?limit=1000", wantPage: 1, wantSize: 100},
	}

	e := echo.New()
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/notifications"+tt.query, nil)
		ctx := e.NewContext(req, httptest.NewRecorder())

		p := NewQueryParams(ctx)
		assert.Equal(t, tt.wantPage, p.PageNumber, tt.query)
		assert.Equal(t, tt.wantSize, p.PageSize, tt.query)
	}

	assert.Equal(t, 20, QueryParams{PageNumber: 3, PageSize: 10}.Offset())
}
