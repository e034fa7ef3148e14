package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct{ ID uint }

func TestExistsOrError(t *testing.T) {
	var nilRow *row
	absent := []any{nil, "", "   ", []int{}, map[string]int{}, 0, int64(0), uint(0), false, nilRow}
	for _, v := range absent {
		t.Run(fmt.Sprintf("absent %T %v", v, v), func(t *testing.T) {
			err := ExistsOrError(v, "missing")
			require.Error(t, err)
			assert.Equal(t, "missing", err.Error())
		})
	}

	present := []any{"x", []int{1}, map[string]int{"a": 1}, 1, int64(3), true, &row{ID: 1}, row{}}
	for _, v := range present {
		t.Run(fmt.Sprintf("present %T %v", v, v), func(t *testing.T) {
			assert.NoError(t, ExistsOrError(v, "missing"))
		})
	}
}

func TestNotExistsOrError(t *testing.T) {
	assert.NoError(t, NotExistsOrError(nil, "dup"))
	assert.NoError(t, NotExistsOrError(int64(0), "dup"))

	err := NotExistsOrError(&row{ID: 7}, "dup")
	require.Error(t, err)
	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "dup", msg)
}

func TestEqualsOrError(t *testing.T) {
	assert.NoError(t, EqualsOrError("abc", "abc", "differ"))
	assert.EqualError(t, EqualsOrError("abc", "abd", "differ"), "differ")
	assert.EqualError(t, EqualsOrError(1, "1", "differ"), "differ")
}

func TestMessage_NonValidationError(t *testing.T) {
	_, ok := Message(errors.New("db down"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("save: %w", New("Senhas nao conferem"))
	msg, ok := Message(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Senhas nao conferem", msg)
}
