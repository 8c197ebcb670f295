package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/service"
	"github.com/classcover/classcover-api/internal/store"
)

func newTeacherHandler(t *testing.T, teachers []models.Teacher) (*TeacherHandler, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New()
	st.Load(models.Snapshot{Teachers: teachers})
	timetable := service.NewTimetableService(st, nil, models.DefaultTotalPeriods, nil)
	roster := service.NewRosterService(st, nil, nil, nil)
	return NewTeacherHandler(roster, timetable), st
}

func TestTeacherCreateAndList(t *testing.T) {
	handler, st := newTeacherHandler(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewBufferString(`{"name":"陳大文"}`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(handler.Create, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, st.Teachers(), 1)

	req, _ = http.NewRequest(http.MethodGet, "/teachers", nil)
	w = performRequest(handler.List, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Teacher `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "陳大文", envelope.Data[0].Name)
}

func TestTeacherCreateRejectsDuplicateName(t *testing.T) {
	handler, _ := newTeacherHandler(t, []models.Teacher{{ID: "t1", Name: "陳大文"}})

	req, _ := http.NewRequest(http.MethodPost, "/teachers", bytes.NewBufferString(`{"name":"陳大文"}`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(handler.Create, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTeacherDelete(t *testing.T) {
	handler, st := newTeacherHandler(t, []models.Teacher{{ID: "t1", Name: "陳大文"}})

	req, _ := http.NewRequest(http.MethodDelete, "/teachers/t1", nil)
	w := performRequest(handler.Delete, req, gin.Param{Key: "id", Value: "t1"})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.Teachers())

	w = performRequest(handler.Delete, req, gin.Param{Key: "id", Value: "t1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleFreePeriodEndpoint(t *testing.T) {
	handler, st := newTeacherHandler(t, []models.Teacher{{ID: "t1", Name: "陳大文"}})

	req, _ := http.NewRequest(http.MethodPatch, "/teachers/t1/free-periods", bytes.NewBufferString(`{"period":3}`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(handler.ToggleFreePeriod, req, gin.Param{Key: "id", Value: "t1"})
	require.Equal(t, http.StatusOK, w.Code)

	teacher, _ := st.Get("t1")
	assert.Equal(t, []int{3}, teacher.FreePeriods)
}

func TestRefreshFreePeriodsEndpoint(t *testing.T) {
	handler, st := newTeacherHandler(t, []models.Teacher{{
		ID:             "t1",
		Name:           "陳大文",
		MasterSchedule: map[int][]int{1: {1, 2, 3, 4, 5, 6, 7, 8}},
	}})

	req, _ := http.NewRequest(http.MethodPost, "/teachers/free-periods/refresh?date=2026-01-05", nil)
	w := performRequest(handler.RefreshFreePeriods, req)
	require.Equal(t, http.StatusOK, w.Code)

	teacher, _ := st.Get("t1")
	assert.Equal(t, []int{9}, teacher.FreePeriods)

	req, _ = http.NewRequest(http.MethodPost, "/teachers/free-periods/refresh", nil)
	w = performRequest(handler.RefreshFreePeriods, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
