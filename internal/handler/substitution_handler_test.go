package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classcover/classcover-api/internal/models"
	"github.com/classcover/classcover-api/internal/service"
	"github.com/classcover/classcover-api/internal/store"
	"github.com/classcover/classcover-api/pkg/response"
)

func newSubstitutionHandler(t *testing.T, teachers []models.Teacher) (*SubstitutionHandler, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New()
	st.Load(models.Snapshot{Teachers: teachers})
	timetable := service.NewTimetableService(st, nil, models.DefaultTotalPeriods, nil)
	availability := service.NewAvailabilityService(st, timetable, []string{"中文", "英文", "數學"}, nil, nil)
	assignments := service.NewAssignmentService(st, nil, nil, nil)
	return NewSubstitutionHandler(availability, assignments), st
}

func performRequest(h gin.HandlerFunc, req *http.Request, params ...gin.Param) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	h(c)
	c.Writer.WriteHeaderNow()
	return w
}

func TestCandidatesEndpoint(t *testing.T) {
	handler, _ := newSubstitutionHandler(t, []models.Teacher{
		{ID: "t1", Name: "Teacher One", FreePeriods: []int{2}},
		{ID: "t2", Name: "Teacher Two", FreePeriods: []int{2}},
	})

	req, _ := http.NewRequest(http.MethodGet, "/substitutions/candidates?date=2026-01-05&period=2&absentTeacherId=t1", nil)
	w := performRequest(handler.Candidates, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Candidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "t2", envelope.Data[0].Teacher.ID)
}

func TestCandidatesEndpointRejectsBadPeriod(t *testing.T) {
	handler, _ := newSubstitutionHandler(t, nil)

	for _, query := range []string{"", "period=abc", "period=0", "period=-3"} {
		req, _ := http.NewRequest(http.MethodGet, "/substitutions/candidates?"+query, nil)
		w := performRequest(handler.Candidates, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestApplyEndpoint(t *testing.T) {
	handler, st := newSubstitutionHandler(t, []models.Teacher{
		{ID: "t1", Name: "Teacher One"},
		{ID: "t2", Name: "Teacher Two"},
	})

	payload := `{"date":"2026-01-05","period":2,"absentTeacherId":"t1","substituteTeacherId":"t2","className":"1A"}`
	req, _ := http.NewRequest(http.MethodPost, "/substitutions", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(handler.Apply, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data service.ApplyAssignmentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Entry.ID)

	absent, _ := st.Get("t1")
	assert.Equal(t, 1, absent.Absences)
}

func TestApplyEndpointRejectsMalformedBody(t *testing.T) {
	handler, _ := newSubstitutionHandler(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/substitutions", bytes.NewBufferString(`{"date":`))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(handler.Apply, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
}

func TestRollbackEndpoint(t *testing.T) {
	handler, st := newSubstitutionHandler(t, []models.Teacher{
		{ID: "t1", Name: "Teacher One"},
		{ID: "t2", Name: "Teacher Two"},
	})

	entry, err := st.RecordAssignment(models.SubLogEntry{
		Date: "2026-01-05", Period: 2, ClassName: "1A",
		AbsentTeacherRef:     models.TeacherRef{ID: "t1"},
		SubstituteTeacherRef: models.TeacherRef{ID: "t2"},
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodDelete, "/substitutions/"+entry.ID, nil)
	w := performRequest(handler.Rollback, req, gin.Param{Key: "id", Value: entry.ID})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, st.AllEntries())

	w = performRequest(handler.Rollback, req, gin.Param{Key: "id", Value: entry.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDailyLogEndpointRejectsBadDate(t *testing.T) {
	handler, _ := newSubstitutionHandler(t, nil)

	req, _ := http.NewRequest(http.MethodGet, "/substitutions/daily?date=garbage", nil)
	w := performRequest(handler.DailyLog, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
