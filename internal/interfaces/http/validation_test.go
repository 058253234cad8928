package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
)

func TestValidator_PhoneRule(t *testing.T) {
	v := newValidator()

	ok := dto.CreateSupplierRequest{Name: "Lácteos del Sur", Phone: "+84 (28) 3822-1234"}
	assert.NoError(t, v.Struct(ok))

	bad := dto.CreateSupplierRequest{Name: "Lácteos del Sur", Phone: "llamar-al-jefe"}
	err := v.Struct(bad)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"phone": "phone"}, validationErrors(err))

	assert.NoError(t, v.Struct(dto.CreateSupplierRequest{Name: "Sin teléfono"}), "omitempty")
}
