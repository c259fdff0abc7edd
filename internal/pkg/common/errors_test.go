package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithMessageKeepsCodeAndStatus(t *testing.T) {
	err := ErrInsufficientQuantity.WithMessage("you only have 2 l of milk")
	assert.Equal(t, ErrCodeInsufficientQuantity, err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "you only have 2 l of milk", err.Message)
	assert.Equal(t, "you only have 2 l of milk", err.Error())
}

// errors.Is 以錯誤代碼比對，訊息不同也視為同一類錯誤
func TestErrorsIsMatchesByCode(t *testing.T) {
	err := ErrItemNotFound.WithMessage("'milk' is not in your inventory")
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.False(t, errors.Is(err, ErrInsufficientQuantity))

	wrapped := fmt.Errorf("handling command: %w", err)
	assert.True(t, errors.Is(wrapped, ErrItemNotFound))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeItemNotFound, ErrorCode(ErrItemNotFound))
	assert.Equal(t, ErrCodeInternalError, ErrorCode(errors.New("plain error")))
}
