package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHelpersSeeThroughWrapping(t *testing.T) {
	validation := fmt.Errorf("register material: %w", Validation(ReasonDuplicateID, "id", "El ID ya existe."))
	persistence := fmt.Errorf("insert bracelet: %w", Persistence(ReasonUnavailable, "sin conexión", errors.New("dial tcp: refused")))

	assert.True(t, IsValidation(validation))
	assert.False(t, IsPersistence(validation))
	assert.Equal(t, ReasonDuplicateID, ReasonOf(validation))
	assert.Equal(t, "El ID ya existe.", UserMessage(validation))

	assert.True(t, IsPersistence(persistence))
	assert.Equal(t, ReasonUnavailable, ReasonOf(persistence))
	assert.Contains(t, persistence.Error(), "dial tcp: refused")
}

func TestPlainErrorsHaveNoReason(t *testing.T) {
	err := errors.New("boom")

	assert.False(t, IsValidation(err))
	assert.Empty(t, ReasonOf(err))
	assert.Equal(t, "Ocurrió un error inesperado.", UserMessage(err))
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("constraint failed")
	err := Persistence(ReasonDuplicateKey, "duplicado", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "[PERSISTENCE/duplicate_key] duplicado: constraint failed", err.Error())
}

func TestValidationfFormatsMessage(t *testing.T) {
	err := Validationf(ReasonInvalidNumber, "largo", "%s debe ser numérico", "Largo")

	assert.Equal(t, "largo", err.Field)
	assert.Equal(t, "[VALIDATION/invalid_number] Largo debe ser numérico", err.Error())
}
