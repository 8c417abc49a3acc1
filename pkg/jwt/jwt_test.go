package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/stock-ledger-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testIdentity = pkgjwt.Identity{UserID: "user-1", CompanyID: "comp-1", Role: "bodeguero"}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "ledger", time.Hour)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(testSecret, "ledger", tok)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, id)

	_, err = pkgjwt.Parse(testSecret, "", tok)
	assert.NoError(t, err, "sin issuer configurado no se valida el emisor")
}

func TestJWT_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testSecret, testIdentity, "", -time.Minute)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, "", expired)
	assert.Error(t, err, "token expirado")

	tok, err := pkgjwt.Generate(testSecret, testIdentity, "otro", time.Hour)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", "", tok)
	assert.Error(t, err, "secret incorrecto")
	_, err = pkgjwt.Parse(testSecret, "ledger", tok)
	assert.Error(t, err, "issuer distinto")

	noCompany, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u"}, "", time.Hour)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, "", noCompany)
	assert.Error(t, err, "token sin empresa")

	_, err = pkgjwt.Generate("", testIdentity, "", time.Hour)
	assert.Error(t, err)
}
