package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	pkgjwt "github.com/jhoicas/inventario-stock/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "inventario-stock-test"
)

// tokenForRole genera un JWT de testUserID con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func sendWithHeader(t *testing.T, method, path, authHeader string) *http.Response {
	t.Helper()
	app, _ := buildStockApp(t)
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Duplicación: solo admin y bodeguero
// ──────────────────────────────────────────────────────────────────────────────

func TestDuplicateGate_RolesDeEscrituraPasanConSuUsuario(t *testing.T) {
	for _, role := range []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, "ADMIN"} {
		t.Run(role, func(t *testing.T) {
			app, sink := buildStockApp(t)
			resp := send(t, app, http.MethodPost, "/api/stock/groups/duplicate", role, duplicateBody("Copia"))
			resp.Body.Close()

			require.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.Equal(t, testUserID, sink.last.RequestedBy, "el usuario del token llega a la capa de mutación")
		})
	}
}

func TestDuplicateGate_TokenSinRol_Retorna401MissingRole(t *testing.T) {
	app, sink := buildStockApp(t)
	resp := send(t, app, http.MethodPost, "/api/stock/groups/duplicate", "", duplicateBody("Copia"))
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token")

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)
	resp = sendWithHeader(t, http.MethodPost, "/api/stock/groups/duplicate", "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "MISSING_ROLE", body.Code)
	assert.Zero(t, sink.applied)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas: cualquier token válido, con o sin rol
// ──────────────────────────────────────────────────────────────────────────────

func TestReadRoutes_TokenSinRolPuedeLeer(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)

	for _, path := range []string{"/api/stock/groups", "/api/stock/alerts"} {
		resp := sendWithHeader(t, http.MethodGet, path, "Bearer "+tok)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestReadRoutes_TokenRechazado(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, pkgjwt.RoleVendedor, testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret", testUserID, pkgjwt.RoleVendedor, testIssuer, 60)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := sendWithHeader(t, http.MethodGet, "/api/stock/alerts", tc.header)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}
