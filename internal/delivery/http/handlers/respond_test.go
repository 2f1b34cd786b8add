package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

func TestWriteError_InternalCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"counter mismatch", fmt.Errorf("complete_reservation: %w", domain.ErrCounterMismatch), "counter_mismatch"},
		{"storage failure", fmt.Errorf("complete_reservation: %w", domain.ErrInternal), "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error)
			assert.Empty(t, body.Message)
		})
	}
}
