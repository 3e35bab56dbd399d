package apperr_test

import (
	"fmt"
	"testing"

	"akun/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Bags(t *testing.T) {
	err := apperr.NewValidationError(apperr.UserDeletionBag).Add("password", "The password is incorrect.")

	assert.True(t, err.Has("password"))
	assert.False(t, err.Has("email"))
	assert.Equal(t, []string{"The password is incorrect."}, err.Bags()[apperr.UserDeletionBag]["password"])
	assert.NotContains(t, err.Bags(), apperr.DefaultBag)
	assert.Contains(t, err.Error(), "userDeletion")
}

func TestValidationError_DefaultsBag(t *testing.T) {
	err := apperr.NewValidationError("")
	assert.Equal(t, apperr.DefaultBag, err.Bag)
	assert.True(t, err.Empty())
}

func TestAsValidation_ConvertsConflict(t *testing.T) {
	wrapped := fmt.Errorf("update profile: %w", &apperr.ConflictError{Field: "email", Value: "a@example.com"})

	ve, ok := apperr.AsValidation(wrapped)
	assert.True(t, ok)
	assert.Equal(t, apperr.DefaultBag, ve.Bag)
	assert.True(t, ve.Has("email"))
}

func TestAsValidation_IgnoresOtherErrors(t *testing.T) {
	_, ok := apperr.AsValidation(&apperr.NotFoundError{Resource: "product", ID: "1"})
	assert.False(t, ok)
	assert.True(t, apperr.IsNotFound(fmt.Errorf("wrap: %w", &apperr.NotFoundError{Resource: "product", ID: "1"})))
}
