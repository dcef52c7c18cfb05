package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/repository"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

type fakeComplaintRepo struct {
	complaints map[string]*domain.Complaint
	history    []domain.StatusHistoryEntry
	listResult []domain.Complaint
	total      int
	lastFilter port.RequestFilter
}

func newFakeComplaintRepo(complaints ...domain.Complaint) *fakeComplaintRepo {
	repo := &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
	for i := range complaints {
		copied := complaints[i]
		repo.complaints[copied.ID] = &copied
	}
	return repo
}

func (r *fakeComplaintRepo) Kind() domain.RequestKind { return domain.KindComplaint }

func (r *fakeComplaintRepo) GetRef(_ context.Context, id string) (*port.RequestRef, error) {
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &port.RequestRef{ID: complaint.ID, OwnerID: complaint.OwnerID, Status: string(complaint.Status)}, nil
}

func (r *fakeComplaintRepo) UpdateStatus(_ context.Context, id, status string, entry domain.StatusHistoryEntry) error {
	complaint, ok := r.complaints[id]
	if !ok {
		return repository.ErrNotFound
	}
	complaint.Status = domain.ComplaintStatus(status)
	r.history = append(r.history, entry)
	return nil
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint domain.Complaint, filed domain.StatusHistoryEntry) error {
	copied := complaint
	r.complaints[copied.ID] = &copied
	r.history = append(r.history, filed)
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *complaint
	return &copied, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter port.RequestFilter) ([]domain.Complaint, error) {
	r.lastFilter = filter
	return r.listResult, nil
}

func (r *fakeComplaintRepo) Count(context.Context, port.RequestFilter) (int, error) {
	return r.total, nil
}

func (r *fakeComplaintRepo) History(_ context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	entries := make([]domain.StatusHistoryEntry, 0)
	for _, entry := range r.history {
		if entry.RequestID == id {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type fakeNotificationSink struct {
	delivered []domain.Notification
}

func (s *fakeNotificationSink) Notify(_ context.Context, notification domain.Notification) error {
	s.delivered = append(s.delivered, notification)
	return nil
}

type fakeAuditSink struct {
	entries []domain.AuditEntry
}

func (s *fakeAuditSink) Record(_ context.Context, entry domain.AuditEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

type fakeBulkMetrics struct {
	updated int
	failed  int
}

func (m *fakeBulkMetrics) RecordBulkItems(updated, failed int) {
	m.updated += updated
	m.failed += failed
}

func actorMiddleware(actor usecase.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorKey, actor)
		c.Next()
	}
}

type bulkFixture struct {
	router  *gin.Engine
	repo    *fakeComplaintRepo
	audit   *fakeAuditSink
	metrics *fakeBulkMetrics
}

func newBulkFixture(t *testing.T, actor usecase.Actor, complaints ...domain.Complaint) *bulkFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeComplaintRepo(complaints...)
	audit := &fakeAuditSink{}
	metrics := &fakeBulkMetrics{}
	clock := port.ClockFunc(func() time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	})

	bulk := usecase.NewBulkStatusService(&fakeNotificationSink{}, audit, &fakePublisher{}, clock, zap.NewNop())

	complaintService, err := usecase.NewComplaintService(
		repo, &fakeNotificationSink{}, audit, &fakePublisher{}, clock, zap.NewNop())
	require.NoError(t, err)

	handler := NewComplaintHandler(complaintService, bulk, repo, metrics)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/complaints", actorMiddleware(actor)))

	return &bulkFixture{router: router, repo: repo, audit: audit, metrics: metrics}
}

func (f *bulkFixture) post(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/complaints/bulk-status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)
	return rec
}

func pendingComplaint(id string) domain.Complaint {
	return domain.Complaint{
		ID:      id,
		OwnerID: "resident-1",
		Title:   "Streetlight out",
		Status:  domain.ComplaintPending,
	}
}

func staffActor() usecase.Actor {
	return usecase.Actor{ID: "staff-1", Name: "Kap Tanod", Role: domain.RoleStaff}
}

func TestBulkStatusPartialFailureIsStill200(t *testing.T) {
	fixture := newBulkFixture(t, staffActor(), pendingComplaint("c-1"), pendingComplaint("c-2"))

	rec := fixture.post(t, BulkStatusRequest{
		IDs:    []string{"c-1", "missing", "c-2"},
		Status: string(domain.ComplaintInProgress),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)

	// Results come back in input order, failures in place.
	require.Len(t, result.Results, 3)
	assert.Equal(t, "c-1", result.Results[0].ID)
	assert.True(t, result.Results[0].Succeeded)
	assert.Equal(t, "missing", result.Results[1].ID)
	assert.False(t, result.Results[1].Succeeded)
	assert.True(t, result.Results[2].Succeeded)

	assert.Equal(t, 2, fixture.metrics.updated)
	assert.Equal(t, 1, fixture.metrics.failed)
}

func TestBulkStatusEmptyIDsFailsFast(t *testing.T) {
	fixture := newBulkFixture(t, staffActor(), pendingComplaint("c-1"))

	rec := fixture.post(t, map[string]any{"ids": []string{}, "status": "in_progress"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ComplaintPending, fixture.repo.complaints["c-1"].Status)
}

func TestBulkStatusUnknownStatusFailsFast(t *testing.T) {
	fixture := newBulkFixture(t, staffActor(), pendingComplaint("c-1"))

	rec := fixture.post(t, BulkStatusRequest{IDs: []string{"c-1"}, Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domain.ComplaintPending, fixture.repo.complaints["c-1"].Status)
}

func TestBulkStatusResidentForbidden(t *testing.T) {
	resident := usecase.Actor{ID: "resident-1", Name: "Juan", Role: domain.RoleResident}
	fixture := newBulkFixture(t, resident, pendingComplaint("c-1"))

	rec := fixture.post(t, BulkStatusRequest{
		IDs:    []string{"c-1"},
		Status: string(domain.ComplaintInProgress),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.ComplaintPending, fixture.repo.complaints["c-1"].Status)
}

func TestBulkStatusWritesSingleAuditSummary(t *testing.T) {
	fixture := newBulkFixture(t, staffActor(), pendingComplaint("c-1"), pendingComplaint("c-2"))

	rec := fixture.post(t, BulkStatusRequest{
		IDs:    []string{"c-1", "c-2"},
		Status: string(domain.ComplaintResolved),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fixture.audit.entries, 1)
}
