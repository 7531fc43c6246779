package finerrors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Línea 4: formato de fecha inválido. Usa DD/MM/AAAA",
		(&FormatError{Line: 4, Reason: "formato de fecha inválido. Usa DD/MM/AAAA"}).Error())

	assert.Equal(t, `Línea 7: cuenta "Desconocida" no encontrada`,
		(&ResolutionError{Line: 7, Field: "cuenta", Value: "Desconocida"}).Error())
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	notFound := fmt.Errorf("loading: %w", &NotFoundError{Entity: "account", ID: "a1"})
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))

	conflict := fmt.Errorf("saving: %w", &ConflictError{Entity: "snapshot", Reason: "duplicate"})
	assert.True(t, IsConflict(conflict))

	format := fmt.Errorf("import: %w", &FormatError{Line: 2, Reason: "bad"})
	assert.True(t, IsFormat(format))

	badRange := fmt.Errorf("query: %w", &InvalidRangeError{Start: time.Now(), End: time.Now().Add(-time.Hour)})
	assert.True(t, IsInvalidRange(badRange))

	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestValidationErrorUnwrap(t *testing.T) {
	inner := errors.New("amount must be positive")
	err := &ValidationError{Reason: "invalid movement", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "invalid movement")
}
