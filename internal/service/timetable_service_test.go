package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/store"
	appErrors "github.com/classcover/classcover-api/pkg/errors"
)

func newTimetableFixture(t *testing.T, teachers []models.Teacher) (*store.Store, *TimetableService, *recordingPersister) {
	t.Helper()
	st := store.New()
	st.Load(models.Snapshot{Teachers: teachers})
	persister := &recordingPersister{}
	return st, NewTimetableService(st, persister, models.DefaultTotalPeriods, nil), persister
}

func TestFreePeriodsComplementIsDisjoint(t *testing.T) {
	teacher := models.Teacher{
		ID:             "t1",
		Name:           "Teacher One",
		MasterSchedule: map[int][]int{1: {1, 3, 5, 7, 9}},
	}
	_, svc, _ := newTimetableFixture(t, []models.Teacher{teacher})

	date, err := models.ParseSchoolDate(monday)
	require.NoError(t, err)
	free := svc.FreePeriodsFor(teacher, date)
	assert.Equal(t, []int{2, 4, 6, 8}, free)

	busy := map[int]struct{}{}
	for _, p := range teacher.MasterSchedule[1] {
		busy[p] = struct{}{}
	}
	for _, p := range free {
		_, overlaps := busy[p]
		assert.Falsef(t, overlaps, "period %d both taught and free", p)
	}
}

func TestFreePeriodsFallsBackToManualProjection(t *testing.T) {
	teacher := models.Teacher{
		ID:             "t1",
		Name:           "Teacher One",
		MasterSchedule: map[int][]int{2: {1, 2}},
		FreePeriods:    []int{5, 6},
	}
	_, svc, _ := newTimetableFixture(t, []models.Teacher{teacher})

	// Monday has no timetable data even though Tuesday does.
	date, _ := models.ParseSchoolDate(monday)
	assert.Equal(t, []int{5, 6}, svc.FreePeriodsFor(teacher, date))

	weekend, _ := models.ParseSchoolDate(sunday)
	assert.Equal(t, []int{5, 6}, svc.FreePeriodsFor(teacher, weekend))
}

func TestToggleManualFreeRoundTrips(t *testing.T) {
	st, svc, persister := newTimetableFixture(t, []models.Teacher{
		{ID: "t1", Name: "Teacher One", FreePeriods: []int{1, 5}},
	})

	updated, err := svc.ToggleManualFree(context.Background(), "t1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, updated.FreePeriods)

	updated, err = svc.ToggleManualFree(context.Background(), "t1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, updated.FreePeriods)
	assert.Equal(t, 2, persister.calls)

	stored, _ := st.Get("t1")
	assert.Equal(t, []int{1, 5}, stored.FreePeriods)
}

func TestToggleManualFreeValidatesRange(t *testing.T) {
	_, svc, _ := newTimetableFixture(t, []models.Teacher{{ID: "t1", Name: "Teacher One"}})

	for _, period := range []int{0, -1, 10} {
		_, err := svc.ToggleManualFree(context.Background(), "t1", period)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}

	_, err := svc.ToggleManualFree(context.Background(), "missing", 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRefreshFreePeriodsOverwritesProjections(t *testing.T) {
	st, svc, persister := newTimetableFixture(t, []models.Teacher{
		{
			ID: "t1", Name: "Teacher One",
			MasterSchedule: map[int][]int{1: {1, 2, 3}},
			FreePeriods:    []int{9},
		},
		{ID: "t2", Name: "Teacher Two", FreePeriods: []int{4}},
	})

	refreshed, err := svc.RefreshFreePeriods(context.Background(), monday)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 1, persister.calls)

	withTimetable, _ := st.Get("t1")
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, withTimetable.FreePeriods)

	manualOnly, _ := st.Get("t2")
	assert.Equal(t, []int{4}, manualOnly.FreePeriods)
}

func TestRefreshFreePeriodsWeekendNoOp(t *testing.T) {
	st, svc, persister := newTimetableFixture(t, []models.Teacher{
		{
			ID: "t1", Name: "Teacher One",
			MasterSchedule: map[int][]int{1: {1, 2, 3}},
			FreePeriods:    []int{9},
		},
	})

	refreshed, err := svc.RefreshFreePeriods(context.Background(), sunday)
	require.NoError(t, err)
	assert.Zero(t, refreshed)
	assert.Zero(t, persister.calls)

	teacher, _ := st.Get("t1")
	assert.Equal(t, []int{9}, teacher.FreePeriods)
}

func TestRefreshFreePeriodsRejectsBadDate(t *testing.T) {
	_, svc, _ := newTimetableFixture(t, nil)

	_, err := svc.RefreshFreePeriods(context.Background(), "not-a-date")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAllPeriods(t *testing.T) {
	_, svc, _ := newTimetableFixture(t, nil)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, svc.AllPeriods())

	short := NewTimetableService(store.New(), nil, 6, nil)
	assert.Len(t, short.AllPeriods(), 6)
}
