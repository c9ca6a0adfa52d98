package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"401", domain.NewAPIError(http.StatusUnauthorized, ""), domain.KindAuthentication},
		{"403", domain.NewAPIError(http.StatusForbidden, ""), domain.KindAuthorization},
		{"500", domain.NewAPIError(http.StatusInternalServerError, ""), domain.KindTransient},
		{"503 wrapped", fmt.Errorf("list clients: %w", domain.NewAPIError(http.StatusServiceUnavailable, "")), domain.KindTransient},
		{"status 0", &domain.APIError{Status: 0}, domain.KindTransient},
		{"404", domain.NewAPIError(http.StatusNotFound, "Client not found"), domain.KindValidation},
		{"400", domain.NewAPIError(http.StatusBadRequest, ""), domain.KindValidation},
		{"transport", fmt.Errorf("%w: %w", domain.ErrTransport, errors.New("dial tcp: refused")), domain.KindTransient},
		{"parse", fmt.Errorf("read sheet: %w", domain.ErrParseFailed), domain.KindParse},
		{"local validation", domain.ErrInvalidForm, domain.KindValidation},
		{"not logged in", domain.ErrNotLoggedIn, domain.KindAuthentication},
		{"other", errors.New("boom"), domain.KindUnknown},
		{"nil", nil, domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "Client not found", domain.NewAPIError(http.StatusNotFound, "Client not found").Error())
	assert.Equal(t, "Not Found", domain.NewAPIError(http.StatusNotFound, "").Error())

	fieldErr := &domain.APIError{Status: 400, Title: "Bad Request", Errors: map[string]string{
		"fullName": "must not be blank",
		"email":    "must be a well-formed email address",
	}}
	assert.Equal(t, "email: must be a well-formed email address; fullName: must not be blank", fieldErr.Error())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, domain.StatusCode(domain.NewAPIError(http.StatusNotFound, "")))
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(domain.ErrInvalidForm))
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(domain.ErrParseFailed))
	assert.Equal(t, http.StatusUnauthorized, domain.StatusCode(domain.ErrNotLoggedIn))
	assert.Equal(t, http.StatusBadRequest, domain.StatusCode(domain.ErrNothingToExport))
	assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(errors.New("boom")))
}
