package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope_Ok(t *testing.T) {
	t.Parallel()

	ok := Envelope[int]{Success: true, HTTPStatus: http.StatusOK}
	assert.True(t, ok.Ok())

	// A success flag with a non-2xx status is not a success.
	mismatch := Envelope[int]{Success: true, HTTPStatus: http.StatusBadGateway}
	assert.False(t, mismatch.Ok())

	failed := Envelope[int]{Success: false, HTTPStatus: http.StatusOK}
	assert.False(t, failed.Ok())
}

func TestEnvelope_ErrorMessage(t *testing.T) {
	t.Parallel()

	withDetail := Envelope[int]{
		Message: "Error general",
		Errors:  []ErrorDetail{{AppCode: "X1", Message: "Detalle primero"}, {Message: "segundo"}},
	}
	assert.Equal(t, "Detalle primero", withDetail.ErrorMessage())

	onlyMessage := Envelope[int]{Message: "Error general"}
	assert.Equal(t, "Error general", onlyMessage.ErrorMessage())

	empty := Envelope[int]{}
	assert.Equal(t, "Error desconocido", empty.ErrorMessage())
}
