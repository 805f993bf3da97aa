package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: InvalidInputErr("amount"), want: http.StatusBadRequest},
		{name: "unauthorized", err: UnauthorizedErr("nope"), want: http.StatusUnauthorized},
		{name: "upstream", err: UpstreamErr("card declined", errors.New("boom")), want: http.StatusInternalServerError},
		{name: "wrapped invalid", err: fmt.Errorf("create: %w", InvalidInputErr("description")), want: http.StatusBadRequest},
		{name: "plain error", err: errors.New("plain"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "card declined", PublicMessage(UpstreamErr("card declined", errors.New("x"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("secret detail")))
	assert.True(t, Is(fmt.Errorf("w: %w", UnauthorizedErr("")), Unauthorized))
	assert.False(t, Is(errors.New("x"), Unauthorized))
}
