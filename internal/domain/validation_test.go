package domain_test

import (
	"strings"
	"testing"

	"github.com/straye-as/client-admin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, domain.IsValidEmail("alice@x.com"))
	assert.True(t, domain.IsValidEmail("a.b+c@sub.example.org"))
	assert.False(t, domain.IsValidEmail("bad-email"))
	assert.False(t, domain.IsValidEmail("alice@x"))
	assert.False(t, domain.IsValidEmail("al ice@x.com"))
	assert.False(t, domain.IsValidEmail("@x.com"))
	assert.False(t, domain.IsValidEmail(""))
}

func TestValidatorCreateClientRequest(t *testing.T) {
	v := domain.NewValidator()

	ok := domain.CreateClientRequest{FullName: "Alice", Email: "alice@x.com"}
	require.NoError(t, v.Struct(ok))

	bad := domain.CreateClientRequest{
		FullName:    "",
		Email:       "bad-email",
		DisplayName: domain.OptionalString(strings.Repeat("d", 256)),
		Details:     domain.OptionalString(strings.Repeat("x", 1001)),
	}
	err := v.Struct(bad)
	require.Error(t, err)

	fields := domain.FieldErrors(err)
	assert.Equal(t, "This field is required", fields["fullName"])
	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Equal(t, "Exceeds maximum length", fields["displayName"])
	assert.Equal(t, "Exceeds maximum length", fields["details"])
	assert.NotContains(t, fields, "location")
}

func TestMaxLenCountsUTF16Units(t *testing.T) {
	assert.Equal(t, 2, domain.TextLength("😀"))
	assert.Equal(t, 1, domain.TextLength("ø"))
	assert.Equal(t, 0, domain.TextLength(""))

	v := domain.NewValidator()
	req := domain.CreateClientRequest{FullName: strings.Repeat("😀", 128), Email: "a@x.com"}
	err := v.Struct(req)
	require.Error(t, err)
	assert.Equal(t, "Exceeds maximum length", domain.FieldErrors(err)["fullName"])

	req.FullName = strings.Repeat("ø", 255)
	assert.NoError(t, v.Struct(req))
}

func TestDraftPostRequestUsesEmptyStrings(t *testing.T) {
	d := domain.Draft{ID: 3, FullName: "Bob", Email: "bob@x.com", Active: true}
	req := d.PostRequest()

	require.NotNil(t, req.DisplayName)
	require.NotNil(t, req.Details)
	require.NotNil(t, req.Location)
	assert.Equal(t, "", *req.DisplayName)
	assert.Equal(t, "", *req.Location)
	require.NotNil(t, req.Active)
	assert.True(t, *req.Active)
}

func TestClientRequestFrom(t *testing.T) {
	req := domain.ClientRequestFrom(domain.Client{ID: 1, FullName: "Ann", Email: "ann@x.com", Location: "Oslo"})
	assert.Nil(t, req.DisplayName)
	assert.Equal(t, "Oslo", domain.StringValue(req.Location))
	assert.Equal(t, "", domain.StringValue(nil))
}
