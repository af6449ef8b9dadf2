package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orderlens-lab/orderlens/internal/core/errors"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewService(sampleTables()).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlers_StatusMapping(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "lifecycle for known order",
			path:           "/v1/orders/1/lifecycle",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lifecycle for unknown order returns 404",
			path:           "/v1/orders/99/lifecycle",
			expectedStatus: http.StatusNotFound,
			expectedType:   errors.HttpNotFoundError,
		},
		{
			name:           "non-numeric order id returns 400",
			path:           "/v1/orders/abc/lifecycle",
			expectedStatus: http.StatusBadRequest,
			expectedType:   errors.HttpInvalidQueryError,
		},
		{
			name:           "time between stages",
			path:           "/v1/orders/1/lifecycle/between?from=shipped&to=placed",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "time between with missing stage returns 400",
			path:           "/v1/orders/1/lifecycle/between?from=shipped",
			expectedStatus: http.StatusBadRequest,
			expectedType:   errors.HttpInvalidQueryError,
		},
		{
			name:           "time between unknown stage returns 404",
			path:           "/v1/orders/1/lifecycle/between?from=returned&to=placed",
			expectedStatus: http.StatusNotFound,
			expectedType:   errors.HttpNotFoundError,
		},
		{
			name:           "customer summary",
			path:           "/v1/customers/101/summary",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown customer returns 404",
			path:           "/v1/customers/999/summary",
			expectedStatus: http.StatusNotFound,
			expectedType:   errors.HttpNotFoundError,
		},
		{
			name:           "order total",
			path:           "/v1/customers/101/orders/1/total",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "frequent products",
			path:           "/v1/customers/101/frequent-products",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "customers in region",
			path:           "/v1/regions/West/customers",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown region returns 404",
			path:           "/v1/regions/North/customers",
			expectedStatus: http.StatusNotFound,
			expectedType:   errors.HttpNotFoundError,
		},
		{
			name:           "top customers with default n",
			path:           "/v1/analytics/top-customers",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "top customers with zero n returns 400",
			path:           "/v1/analytics/top-customers?n=0",
			expectedStatus: http.StatusBadRequest,
			expectedType:   errors.HttpInvalidQueryError,
		},
		{
			name:           "top customers with non-numeric n returns 400",
			path:           "/v1/analytics/top-customers?n=abc",
			expectedStatus: http.StatusBadRequest,
			expectedType:   errors.HttpInvalidQueryError,
		},
		{
			name:           "top products with malformed start returns 400",
			path:           "/v1/analytics/top-products?start=yesterday",
			expectedStatus: http.StatusBadRequest,
			expectedType:   errors.HttpInvalidQueryError,
		},
		{
			name:           "average customer spend",
			path:           "/v1/analytics/avg-customer-spend?region=West",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "average order value with window",
			path:           "/v1/analytics/avg-order-value?start=2024-07-01T00:00:00Z&end=2024-07-01T23:59:59Z",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, tc.path)
			require.Equal(t, tc.expectedStatus, w.Code)

			if tc.expectedType != "" {
				var body errors.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				require.Equal(t, tc.expectedType, body.ErrorType)
			}
		})
	}
}

func TestHandleLifecycle_Body(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, "/v1/orders/1/lifecycle")
	require.Equal(t, http.StatusOK, w.Code)

	var body LifecycleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, int64(1), body.OrderID)
	require.Equal(t, float64(2881), body.TotalDurationSeconds)
	require.Len(t, body.Stages, 5)
	require.NotEmpty(t, body.SnapshotID)
}

func TestHandleTimeBetween_Body(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, "/v1/orders/1/lifecycle/between?from=shipped&to=placed")
	require.Equal(t, http.StatusOK, w.Code)

	var body TimeBetweenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(1258), body.Seconds)
}

func TestHandleCustomersInRegion_UnknownRegionDetails(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, "/v1/regions/North/customers")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		ErrorType string `json:"error_type"`
		Details   struct {
			Region       string   `json:"region"`
			ValidRegions []string `json:"valid_regions"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "North", body.Details.Region)
	require.Equal(t, []string{"East", "West"}, body.Details.ValidRegions)
}
