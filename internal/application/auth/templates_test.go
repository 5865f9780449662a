package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_PasswordReset(t *testing.T) {
	body, err := renderTemplate(tmplPasswordReset, templateData{
		Name:          "Chef",
		Email:         "chef@bistro-verde.com",
		Code:          "A1B2C3",
		ExpiryMinutes: 10,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "A1B2C3")
	assert.Contains(t, body, "Chef")
	assert.Contains(t, body, "10")
}

func TestRenderTemplate_CustomerAccountRequest(t *testing.T) {
	body, err := renderTemplate(tmplCustomerAccount, templateData{
		Email:         "new@bistro-verde.com",
		Code:          "XYZ789",
		ExpiryMinutes: 10,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "XYZ789")
	assert.Contains(t, body, "new@bistro-verde.com")
}

func TestRenderTemplate_UnknownTemplate(t *testing.T) {
	_, err := renderTemplate("missing.html", templateData{})
	assert.Error(t, err)
}
