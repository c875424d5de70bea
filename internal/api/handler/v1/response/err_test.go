package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantEntity string
	}{
		{name: "not found", err: domain.NotFound(domain.EntityProduct, 3), wantStatus: http.StatusNotFound, wantEntity: domain.EntityProduct},
		{name: "bad request", err: domain.BadRequest(domain.EntityDiscountCode, domain.MsgOutOfStock, "ONCE"), wantStatus: http.StatusBadRequest, wantEntity: domain.EntityDiscountCode},
		{name: "conflict", err: domain.Conflict(domain.EntityTent, "taken", 1), wantStatus: http.StatusConflict, wantEntity: domain.EntityTent},
		{name: "wrapped", err: fmt.Errorf("v1.HandleX -> %w", domain.Conflict(domain.EntityTent, "taken", 1)), wantStatus: http.StatusConflict, wantEntity: domain.EntityTent},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, e.HTTPStatusCode)
			assert.Equal(t, tt.wantEntity, e.Entity)
			assert.Equal(t, http.StatusText(tt.wantStatus), e.StatusText)
			assert.ErrorIs(t, e.Err, tt.err)
		})
	}

	assert.Equal(t, "something went wrong", FromError(errors.New("boom")).Message)
	assert.Equal(t, "bad_request: discount_code [ONCE]: out of stock",
		FromError(domain.BadRequest(domain.EntityDiscountCode, domain.MsgOutOfStock, "ONCE")).Message)
}
