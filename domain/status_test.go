package domain_test

import (
	"encoding/json"
	"testing"

	"menugenius/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.Status
		to   domain.Status
		want bool
	}{
		{name: "pending to preparing", from: domain.StatusPending, to: domain.StatusPreparing, want: true},
		{name: "preparing to ready", from: domain.StatusPreparing, to: domain.StatusReady, want: true},
		{name: "ready to delivering", from: domain.StatusReady, to: domain.StatusDelivering, want: true},
		{name: "delivering to completed", from: domain.StatusDelivering, to: domain.StatusCompleted, want: true},
		{name: "skip ahead", from: domain.StatusReady, to: domain.StatusCompleted, want: true},
		{name: "cancel pending", from: domain.StatusPending, to: domain.StatusCancelled, want: true},
		{name: "cancel delivering", from: domain.StatusDelivering, to: domain.StatusCancelled, want: true},
		{name: "backwards", from: domain.StatusReady, to: domain.StatusPreparing, want: false},
		{name: "same status", from: domain.StatusPreparing, to: domain.StatusPreparing, want: false},
		{name: "completed to preparing", from: domain.StatusCompleted, to: domain.StatusPreparing, want: false},
		{name: "completed to cancelled", from: domain.StatusCompleted, to: domain.StatusCancelled, want: false},
		{name: "cancelled to pending", from: domain.StatusCancelled, to: domain.StatusPending, want: false},
		{name: "unknown target", from: domain.StatusPending, to: domain.Status(42), want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.from.CanTransition(testCase.to))
			err := domain.ValidateTransition(testCase.from, testCase.to)
			if testCase.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			}
		})
	}
}

func TestStatus_TerminalAndProgress(t *testing.T) {
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusDelivering.IsTerminal())

	assert.Equal(t, 20, domain.StatusPending.Progress())
	assert.Equal(t, 100, domain.StatusCompleted.Progress())
	assert.Equal(t, 0, domain.StatusCancelled.Progress())
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus(" preparing ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, s)

	_, err = domain.ParseStatus("Shipped")
	assert.ErrorIs(t, err, domain.ErrValidation)

	s, err = domain.StatusFromOrdinal(3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, s)

	_, err = domain.StatusFromOrdinal(6)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatus_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Status domain.Status `json:"status"`
	}{Status: domain.StatusReady})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Ready"}`, string(payload))

	var decoded struct {
		Status domain.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Cancelled"}`), &decoded))
	assert.Equal(t, domain.StatusCancelled, decoded.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"Lost"}`), &decoded))
}
