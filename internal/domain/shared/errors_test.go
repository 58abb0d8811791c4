package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMissingFieldsError(t *testing.T) {
	err := NewMissingFieldsError([]string{"item_id", "entry_date"})

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "Missing required fields: item_id, entry_date", err.Error())
	assert.Equal(t, []string{"item_id", "entry_date"}, err.Missing)
	assert.True(t, IsValidation(err))
}

func TestNewInfrastructureError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInfrastructureError("lookup apcms_marketing", cause)

	assert.Equal(t, "lookup apcms_marketing: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsValidation(err))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NewNotFoundPostWriteError("apcms_item_master", 7))

	assert.Equal(t, CodeNotFoundPostWrite, CodeOf(wrapped))
	assert.Equal(t, CodeNotFound, CodeOf(NewNotFoundError("no rows")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
