package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pantry/pkg/bind"
)

type stockInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Unit      string `json:"unit"       validate:"required"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api/storage", strings.NewReader(body))
}

func TestJSON_Valid(t *testing.T) {
	var in stockInput
	errs, err := bind.JSON(httptest.NewRecorder(), post(`{"product_id":3,"unit":"g"}`), &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, uint(3), in.ProductID)
}

func TestJSON_ValidationErrors(t *testing.T) {
	var in stockInput
	errs, err := bind.JSON(httptest.NewRecorder(), post(`{"unit":""}`), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "product_id")
	assert.Contains(t, errs, "unit")
}

func TestJSON_Malformed(t *testing.T) {
	var in stockInput
	_, err := bind.JSON(httptest.NewRecorder(), post(`{"product_id":`), &in)
	assert.ErrorIs(t, err, bind.ErrMalformed)

	_, err = bind.JSON(httptest.NewRecorder(), post(``), &in)
	assert.ErrorIs(t, err, bind.ErrMalformed)
}
