package httpapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesAbsentAndNull(t *testing.T) {
	type payload struct {
		DueDate    Optional[time.Time] `json:"dueDate"`
		AssigneeID Optional[string]    `json:"assigneeId"`
	}

	t.Run("absent fields stay unset", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.DueDate.Set)
		assert.False(t, p.AssigneeID.Set)
	})

	t.Run("explicit null is set with a nil value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"dueDate": null, "assigneeId": null}`), &p))
		assert.True(t, p.DueDate.Set)
		assert.Nil(t, p.DueDate.Value)
		assert.True(t, p.AssigneeID.Set)
		assert.Nil(t, p.AssigneeID.Value)
	})

	t.Run("a value is set with the value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"dueDate": "2025-06-18T12:00:00Z", "assigneeId": "u1"}`), &p))
		require.True(t, p.DueDate.Set)
		require.NotNil(t, p.DueDate.Value)
		assert.Equal(t, 2025, p.DueDate.Value.Year())
		require.NotNil(t, p.AssigneeID.Value)
		assert.Equal(t, "u1", *p.AssigneeID.Value)
	})

	t.Run("malformed value errors", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"dueDate": "tomorrow"}`), &p))
	})
}
