package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appraisal/internal/apperror"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Items    []item `json:"items" validate:"dive"`
}

type item struct {
	Name   string  `json:"name" validate:"required"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	out := map[string]string{}
	for _, f := range appErr.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(&registerPayload{Email: "nope", Password: "123", Items: []item{{Rating: 7}}})

	fields := fieldsOf(t, err)
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.Equal(t, "is required", fields["items[0].name"])
	assert.Equal(t, "must be at most 5", fields["items[0].rating"])
}

func TestValidatePasses(t *testing.T) {
	assert.NoError(t, Validate(&registerPayload{Name: "A", Email: "a@example.com", Password: "secret"}))
}

func TestDecodeErrors(t *testing.T) {
	var p registerPayload

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	assert.Contains(t, fieldsOf(t, Decode(req, &p)), "body")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": 12}`))
	assert.Contains(t, fieldsOf(t, Decode(req, &p)), "name")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, Decode(req, &p))
}

func TestDecodePassesThroughBodyLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 100)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 10)

	var p registerPayload
	err := Decode(req, &p)
	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}

func TestValidatorManualChecks(t *testing.T) {
	v := NewValidator()
	v.Required("title", "  ", "is required")
	v.Enum("status", "Done", []string{"Draft", "Completed"})
	v.Enum("status2", "", []string{"Draft"})
	_, ok := v.Date("dueDate", "31/12/2026")
	assert.False(t, ok)

	fields := fieldsOf(t, v.Err())
	assert.Len(t, fields, 3)
	assert.Equal(t, "must be one of: Draft, Completed", fields["status"])
	assert.Nil(t, NewValidator().Err())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-12-31T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestParsePage(t *testing.T) {
	params := PageParams{DefaultLimit: 20, MaxLimit: 100}

	page, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?limit=500&offset=7", nil), params)
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: 100, Offset: 7}, page)

	page, err = ParsePage(httptest.NewRequest(http.MethodGet, "/", nil), params)
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: 20}, page)

	_, err = ParsePage(httptest.NewRequest(http.MethodGet, "/?limit=-1&offset=x", nil), params)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, []apperror.FieldIssue{
		apperror.Field("limit", "must be a positive integer"),
		apperror.Field("offset", "must be a non-negative integer"),
	}, appErr.Fields)
}
