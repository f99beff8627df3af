package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
)

func TestFail_MapsErrorKinds(t *testing.T) {
	c := Common{Logger: zap.NewNop()}
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", forms.ValidationErrors{{Field: "email", Message: "is required"}}, http.StatusUnprocessableEntity, `"kind":"validation"`},
		{"malformed", forms.Decode(strings.NewReader("{"), &struct{}{}), http.StatusBadRequest, `"kind":"validation"`},
		{"api client error", &clients.APIError{StatusCode: http.StatusConflict, Message: "taken"}, http.StatusConflict, `"error":"taken"`},
		{"api server error", &clients.APIError{StatusCode: http.StatusServiceUnavailable, Message: "down"}, http.StatusBadGateway, `"kind":"api"`},
		{"unexpected", errors.New("dial tcp: refused"), http.StatusInternalServerError, `"kind":"unexpected"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c.fail(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestFail_DoesNotLeakInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	Common{}.fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "bad": "-1"})
	id, err := pathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = pathID(req, "bad")
	_, isValidation := forms.AsValidation(err)
	assert.True(t, isValidation)
}

func TestParseConnectors(t *testing.T) {
	got, err := parseConnectors(url.Values{"connector": {"CCS,MENNEKES", " CHADEMO ", ""}})
	require.NoError(t, err)
	assert.Equal(t, []models.ConnectorType{models.ConnectorCCS, models.ConnectorMennekes, models.ConnectorCHAdeMO}, got)

	_, err = parseConnectors(url.Values{"connector": {"TESLA"}})
	assert.Error(t, err)
}

func TestParseOrigin(t *testing.T) {
	_, ok, err := parseOrigin(url.Values{})
	require.NoError(t, err)
	assert.False(t, ok)

	origin, ok, err := parseOrigin(url.Values{"lat": {"47.3"}, "lon": {"8.5"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, [2]float64{47.3, 8.5}, origin)

	_, _, err = parseOrigin(url.Values{"lat": {"91"}})
	fields, isValidation := forms.AsValidation(err)
	require.True(t, isValidation)
	assert.Len(t, fields, 2)

	for _, raw := range []string{"NaN", "nan", "Inf", "-inf"} {
		_, ok, err = parseOrigin(url.Values{"lat": {raw}, "lon": {"8.5"}})
		fields, isValidation = forms.AsValidation(err)
		require.True(t, isValidation, raw)
		assert.False(t, ok)
		assert.Equal(t, "lat", fields[0].Field)
	}
}

func TestSessionsOnSpot(t *testing.T) {
	sessions := []models.Session{
		{UUID: "a", ChargingSpot: &models.Spot{ID: 7}},
		{UUID: "b", ChargingSpot: &models.Spot{ID: 8}},
		{UUID: "c"},
	}
	got := sessionsOnSpot(sessions, 7)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].UUID)
	assert.Equal(t, "c", got[1].UUID)
}
