package spec_test

import (
	"net/http"
	"testing"

	"github.com/fivetwenty-io/fastspring-client/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiSchemeDocument = `
openapi: 3.0.3
info:
  title: Test
  version: "2"
servers:
  - url: https://{environment}.example.com/{version}
    variables:
      environment:
        default: api
        enum: [api, sandbox]
      version:
        default: v1
security:
  - bearerAuth: []
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
    keyAuth:
      type: apiKey
      in: header
      name: X-API-Key
paths:
  /things/{thing_id}:
    get:
      operationId: getthing
      parameters:
        - name: thing_id
          in: path
          required: true
          schema:
            type: string
      security:
        - keyAuth: []
      responses:
        "200":
          description: OK
        "404":
          description: Not found
    delete:
      operationId: deletething
      parameters:
        - name: thing_id
          in: path
          required: true
          schema:
            type: string
      responses:
        "204":
          description: Deleted
`

func TestLoad(t *testing.T) {
	t.Parallel()

	catalog, err := spec.Load()
	require.NoError(t, err)

	again, err := spec.Load()
	require.NoError(t, err)
	assert.Same(t, catalog, again)

	assert.Equal(t, "FastSpring API", catalog.Title)
	assert.Len(t, catalog.Operations(), 56)

	server, err := catalog.DefaultServer()
	require.NoError(t, err)
	assert.Equal(t, "https://api.fastspring.com", server.URL)
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	catalog := spec.MustLoad()

	tests := []struct {
		method   string
		template string
		id       string
	}{
		{http.MethodGet, "/accounts/{account_id}", "getoneaccount"},
		{http.MethodPost, "/accounts/{account_id}", "updateaccount"},
		{http.MethodGet, "/coupons/{coupon_id}/codes", "retrievecouponcodesassignedtoacoupon"},
		{http.MethodGet, "/orders?products={product_path}", "getordersbyproductpath"},
		{http.MethodPut, "/quotes/{id}", "updatequote"},
		{http.MethodGet, "/data/v1/downloads/{job_id}", "downloadreport"},
		{"delete", "/webhooks/{webhook_id}", "deletewebhook"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			op, err := catalog.Lookup(tt.method, tt.template)
			require.NoError(t, err)
			assert.Equal(t, tt.id, op.ID)

			byID, err := catalog.Operation(tt.id)
			require.NoError(t, err)
			assert.Same(t, op, byID)
		})
	}

	_, err := catalog.Lookup(http.MethodPatch, "/accounts")
	require.ErrorIs(t, err, spec.ErrOperationNotFound)

	_, err = catalog.Operation("nope")
	require.ErrorIs(t, err, spec.ErrOperationNotFound)
}

func TestOperation_Documents(t *testing.T) {
	t.Parallel()

	catalog := spec.MustLoad()

	op, err := catalog.Operation("getoneaccount")
	require.NoError(t, err)

	assert.Equal(t, []int{200}, op.SuccessCodes)
	assert.ElementsMatch(t, []int{400, 500}, op.ErrorCodes)
	assert.True(t, op.Documents(500))
	assert.True(t, op.Documents(400))
	assert.False(t, op.Documents(404))
	assert.True(t, op.IsSuccess(204))
	assert.False(t, op.IsSuccess(302))
	assert.Equal(t, []spec.Parameter{{Name: "account_id", In: "path"}}, op.Parameters)
	assert.False(t, op.HasBody)
	assert.Equal(t, []string{"basicAuth"}, op.Security)

	create, err := catalog.Operation("createquote")
	require.NoError(t, err)
	assert.True(t, create.HasBody)
	assert.Equal(t, "application/json", create.ContentType)
	assert.Equal(t, []int{201}, create.SuccessCodes)
}

func TestCatalog_SecuritySchemes(t *testing.T) {
	t.Parallel()

	catalog, err := spec.Parse([]byte(multiSchemeDocument))
	require.NoError(t, err)

	get, err := catalog.Operation("getthing")
	require.NoError(t, err)

	schemes := catalog.SecuritySchemes(get)
	require.Len(t, schemes, 1)
	assert.True(t, schemes[0].IsAPIKey())
	assert.Equal(t, "header", schemes[0].In)
	assert.Equal(t, "X-API-Key", schemes[0].ParamName)

	del, err := catalog.Operation("deletething")
	require.NoError(t, err)

	schemes = catalog.SecuritySchemes(del)
	require.Len(t, schemes, 1)
	assert.True(t, schemes[0].IsBearer())
	assert.False(t, schemes[0].IsBasic())

	assert.Empty(t, catalog.SecuritySchemes(nil))
}

func TestServer_Resolve(t *testing.T) {
	t.Parallel()

	catalog, err := spec.Parse([]byte(multiSchemeDocument))
	require.NoError(t, err)

	server, err := catalog.DefaultServer()
	require.NoError(t, err)

	url, err := server.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", url)

	url, err = server.Resolve(map[string]string{"environment": "sandbox", "version": "v2"})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example.com/v2", url)

	_, err = server.Resolve(map[string]string{"environment": "staging"})
	require.ErrorIs(t, err, spec.ErrInvalidServerVariable)

	found, ok := catalog.ServerFor("https://{environment}.example.com/{version}")
	require.True(t, ok)
	assert.Equal(t, server.URL, found.URL)

	custom := spec.Server{URL: "https://{tenant}.example.com"}
	_, err = custom.Resolve(nil)
	require.ErrorIs(t, err, spec.ErrMissingServerVariable)
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"account_id"}, spec.Placeholders("/accounts/{account_id}/authenticate"))
	assert.Equal(t, []string{"product_path"}, spec.Placeholders("/orders?products={product_path}"))
	assert.Empty(t, spec.Placeholders("/accounts"))
}
