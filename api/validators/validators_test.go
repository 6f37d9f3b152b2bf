package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/medinasouk/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

type addItemBody struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":"p1","quantity":2}`))

	var body addItemBody
	require.NoError(t, DecodeJSONBody(r, &body))
	require.Equal(t, "p1", body.ProductID)
	require.Equal(t, 2, body.Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"product_id":"p1","quantity":2,"extra":true}`))

	var body addItemBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyValidationUsesJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":0}`))

	var body addItemBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "product_id")
	require.Contains(t, details, "quantity")
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=5", nil)
	got, err := ParseQueryInt(r, "limit", 10, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 5, got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(r, "limit", 10, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 10, got)

	r = httptest.NewRequest("GET", "/?limit=oops", nil)
	_, err = ParseQueryInt(r, "limit", 10, 1, 50)
	require.Error(t, err)

	r = httptest.NewRequest("GET", "/?limit=500", nil)
	_, err = ParseQueryInt(r, "limit", 10, 1, 50)
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "tagine", SanitizeString("  tagine  ", 0))
	require.Equal(t, "tag", SanitizeString("tagine", 3))
}
