package consultation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/types"
)

func TestRandomPicker(t *testing.T) {
	require.Nil(t, RandomPicker(nil))

	staff := []models.User{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		u := RandomPicker(staff)
		require.NotNil(t, u)
		seen[u.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestApplyUpdate_CompletedAtSetOnce(t *testing.T) {
	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	c := &models.ConsultationRequest{Status: types.ConsultationStatusAssigned}

	require.NoError(t, applyUpdate(c, &UpdateInput{Status: types.ConsultationStatusCompleted}, t1))
	require.Equal(t, t1, *c.CompletedAt)

	notes := "  đã gọi lại  "
	require.NoError(t, applyUpdate(c, &UpdateInput{Status: types.ConsultationStatusCompleted, Notes: &notes}, t1.Add(time.Hour)))
	require.Equal(t, "đã gọi lại", c.Notes)
	require.Equal(t, t1, *c.CompletedAt)
}

func TestApplyUpdate_CompletedIsTerminal(t *testing.T) {
	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	c := &models.ConsultationRequest{Status: types.ConsultationStatusCompleted, CompletedAt: &t1, Notes: "xong"}

	for _, st := range []types.ConsultationStatus{types.ConsultationStatusNew, types.ConsultationStatusAssigned} {
		notes := "mở lại"
		require.ErrorIs(t, applyUpdate(c, &UpdateInput{Status: st, Notes: &notes}, t1.Add(time.Hour)), ErrReopen)
		require.Equal(t, types.ConsultationStatusCompleted, c.Status)
		require.Equal(t, "xong", c.Notes)
		require.Equal(t, t1, *c.CompletedAt)
	}

	notes := "ghi chú thêm"
	require.NoError(t, applyUpdate(c, &UpdateInput{Notes: &notes}, t1.Add(2*time.Hour)))
	require.Equal(t, "ghi chú thêm", c.Notes)
}

func TestApplyUpdate_NewToCompleted(t *testing.T) {
	now := time.Now()
	c := &models.ConsultationRequest{Status: types.ConsultationStatusNew}
	require.NoError(t, applyUpdate(c, &UpdateInput{Status: types.ConsultationStatusCompleted}, now))
	require.NotNil(t, c.CompletedAt)
}

func TestApplyUpdate_RejectsUnknownStatus(t *testing.T) {
	c := &models.ConsultationRequest{Status: types.ConsultationStatusNew}
	require.ErrorIs(t, applyUpdate(c, &UpdateInput{Status: "closed"}, time.Now()), ErrInvalidStatus)
	require.Equal(t, types.ConsultationStatusNew, c.Status)
}

func TestCanAccess(t *testing.T) {
	staffID := "staff-1"
	c := &models.ConsultationRequest{AssignedStaffID: &staffID}

	assert.True(t, canAccess(&models.User{ID: "root", IsStaff: true, IsSuperuser: true}, c))
	assert.True(t, canAccess(&models.User{ID: staffID, IsStaff: true}, c))
	assert.False(t, canAccess(&models.User{ID: "staff-2", IsStaff: true}, c))
	assert.False(t, canAccess(&models.User{ID: staffID}, c))
	assert.False(t, canAccess(&models.User{ID: staffID, IsStaff: true}, &models.ConsultationRequest{}))
}
