package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]string]bool{
		{StatusPendingConfirmation, StatusCreated}:  true,
		{StatusPendingConfirmation, StatusAssigned}: true,
		{StatusPendingConfirmation, StatusRejected}: true,
		{StatusCreated, StatusAssigned}:             true,
		{StatusAssigned, StatusPickedUp}:            true,
		{StatusAssigned, StatusFailed}:              true,
		{StatusPickedUp, StatusInTransit}:           true,
		{StatusPickedUp, StatusFailed}:              true,
		{StatusInTransit, StatusDelivered}:          true,
		{StatusInTransit, StatusFailed}:             true,
	}

	// Every (from, to) pair not in the table must be rejected,
	// including self-transitions and anything out of a terminal status.
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			got := CanTransition(from, to)
			assert.Equal(t, allowed[[2]string{from, to}], got, "%s -> %s", from, to)
		}
	}
}

func TestIsRiderTransition(t *testing.T) {
	riderAllowed := map[[2]string]bool{
		{StatusAssigned, StatusPickedUp}:   true,
		{StatusAssigned, StatusFailed}:     true,
		{StatusPickedUp, StatusInTransit}:  true,
		{StatusPickedUp, StatusFailed}:     true,
		{StatusInTransit, StatusDelivered}: true,
		{StatusInTransit, StatusFailed}:    true,
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			got := IsRiderTransition(from, to)
			assert.Equal(t, riderAllowed[[2]string{from, to}], got, "%s -> %s", from, to)

			// The rider table is a strict subset of the full table.
			if got {
				assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	}

	// Confirmation and staff assignment are never rider moves.
	assert.False(t, IsRiderTransition(StatusPendingConfirmation, StatusCreated))
	assert.False(t, IsRiderTransition(StatusPendingConfirmation, StatusAssigned))
	assert.False(t, IsRiderTransition(StatusCreated, StatusAssigned))
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := map[string]bool{
		StatusDelivered: true,
		StatusFailed:    true,
		StatusRejected:  true,
	}
	for _, s := range AllStatuses() {
		assert.Equal(t, terminal[s], IsTerminalStatus(s), s)
		if terminal[s] {
			for _, to := range AllStatuses() {
				assert.False(t, CanTransition(s, to), "%s -> %s", s, to)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("SHIPPED"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("delivered"))
}
