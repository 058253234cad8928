package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
)

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return handleError(c, err) })
	return app
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleError_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: quantity debe ser > 0", domain.ErrInvalidInput), 400, "VALIDATION"},
		{domain.ErrInvalidCredentials, 401, "INVALID_CREDENTIALS"},
		{fmt.Errorf("%w: lote x", domain.ErrNotFound), 404, "NOT_FOUND"},
		{fmt.Errorf("%w: sku", domain.ErrDuplicate), 409, "DUPLICATE"},
		{fmt.Errorf("%w: draft → sent", domain.ErrInvalidTransition), 409, "INVALID_TRANSITION"},
		{fmt.Errorf("%w: faltan 3", domain.ErrInsufficientStock), 409, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("%w: ítem y", domain.ErrNoSupplierMapping), 422, "NO_SUPPLIER_MAPPING"},
		{domain.ErrNothingToGroup, 422, "NOTHING_TO_GROUP"},
		{errors.New("conexión rechazada"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			resp, err := errorApp(tc.err).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestHandleError_QuitaPrefijoDelErrorBase(t *testing.T) {
	resp, err := errorApp(fmt.Errorf("%w: lote x", domain.ErrNotFound)).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "lote x", decodeError(t, resp).Message)
}

func TestHandleError_NoExponeErroresInternos(t *testing.T) {
	resp, err := errorApp(errors.New("pq: password authentication failed")).Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotContains(t, decodeError(t, resp).Message, "password")
}

func bodyApp() *fiber.App {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var in dto.CreateStockRequestRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		return c.JSON(in)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestParseBody_JSONInvalido(t *testing.T) {
	resp := postJSON(t, bodyApp(), "{no es json")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestParseBody_CamposInvalidos(t *testing.T) {
	resp := postJSON(t, bodyApp(), `{"store_id":"no-uuid","requested_qty":0,"priority":"urgent"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "uuid", body.Fields["store_id"])
	assert.Equal(t, "required", body.Fields["item_id"])
	assert.Equal(t, "required", body.Fields["requested_qty"])
	assert.Equal(t, "oneof", body.Fields["priority"])
}

func TestParseBody_Valido(t *testing.T) {
	resp := postJSON(t, bodyApp(), `{"store_id":"00000000-0000-0000-0000-000000000001","item_id":"00000000-0000-0000-0000-000000000002","requested_qty":5}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
