package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"omitempty,oneof=user moderator admin"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(sampleRequest{
		Email:    "ana@example.com",
		Password: "SuperSecret1",
		Role:     "moderator",
	})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(sampleRequest{
		Email:    "not-an-email",
		Password: "short",
		Role:     "superuser",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Equal(t, "must be one of: user moderator admin", fields["Role"])

	assert.Contains(t, valErr.Error(), "field 'Email'")
	assert.Contains(t, valErr.Error(), "field 'Password'")
}

func TestValidate_RequiredFields(t *testing.T) {
	err := Validate(sampleRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "is required", valErr.Fields()["Email"])
	assert.Equal(t, "is required", valErr.Fields()["Password"])
}
