package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiceHistoryJSON(t *testing.T) {
	rolledAt := time.Date(2026, 4, 1, 12, 34, 56, 0, time.Local)
	h := NewDiceHistory(Dice{ID: 12, Value: 3, UpdatedAt: rolledAt})

	b, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12,"value":3,"updatedAt":"2026-04-01T12:34:56"}`, string(b))

	var decoded DiceHistory
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, h.ID, decoded.ID)
	assert.True(t, rolledAt.Equal(time.Time(decoded.UpdatedAt)))
	assert.Equal(t, "2026-04-01T12:34:56", decoded.UpdatedAt.String())
}

func TestLocalTimeAcceptsFractionalSeconds(t *testing.T) {
	var lt LocalTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-04-01T12:34:56.789"`), &lt))
	assert.Equal(t, 789000000, time.Time(lt).Nanosecond())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &lt))
}

func TestDiceValueOmitsNothing(t *testing.T) {
	b, err := json.Marshal(NewDiceValue(4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":4}`, string(b))

	var empty DiceValue
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Value)
}

func TestNewRollStats(t *testing.T) {
	s := NewRollStats()
	assert.Len(t, s.Counts, 6)
	assert.Zero(t, s.Total)
}
