package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistica/partes-service/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	principal := model.Principal{UserID: uuid.New(), Name: "Juan", Role: model.RoleDriver}

	token, err := NewIssuer("secret", time.Hour).Issue(principal)
	require.NoError(t, err)

	parsed, err := NewParser("secret").Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal, parsed)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	principal := model.Principal{UserID: uuid.New(), Name: "Admin", Role: model.RoleAdmin}

	token, err := NewIssuer("secret", time.Hour).Issue(principal)
	require.NoError(t, err)

	_, err = NewParser("otro").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	principal := model.Principal{UserID: uuid.New(), Name: "Admin", Role: model.RoleAdmin}

	token, err := NewIssuer("secret", -time.Minute).Issue(principal)
	require.NoError(t, err)

	_, err = NewParser("secret").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewParser("secret").Parse("no-es-un-token")
	assert.Error(t, err)
}
