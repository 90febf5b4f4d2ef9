package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigeaze08-web/candy-group-app-v3/internal/challenge"
)

func TestAttendanceGetDates(t *testing.T) {
	handler := NewAttendanceHandler(nil, nil, challenge.CurrentWindow())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/attendance/dates", nil)
	rr := httptest.NewRecorder()

	handler.GetDates(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var dates []challenge.DateOption
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dates))

	require.Len(t, dates, 40)
	assert.Equal(t, "2025-10-13", dates[0].ISO)
	assert.Equal(t, "2025-12-05", dates[len(dates)-1].ISO)
}

func TestWeighInGetDates(t *testing.T) {
	handler := NewWeighInHandler(nil, nil, challenge.CurrentWindow())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/weighins/dates", nil)
	rr := httptest.NewRecorder()

	handler.GetDates(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var dates []challenge.DateOption
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dates))

	require.Len(t, dates, 16)
	assert.Equal(t, "Mon, Oct 13", dates[0].Label)
}
