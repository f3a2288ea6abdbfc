package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
)

// The engine drives the full pipeline off the feed: a creation event
// must end with the report assigned, and the worker's own collect
// update must end with points credited, with every intermediate
// no-op dispatch absorbed by the handler guards.
func TestLifecycleEngine_DrivesAssignmentAndCompletion(t *testing.T) {
	userRepo := newMockUserRepo()
	reportRepo := newMockReportRepo()
	hub := realtime.NewHub()
	conf := testConfig()

	userRepo.addUser(models.User{UserID: "w1", Email: "w1@example.com", Role: models.RoleWorker})

	reportService := NewWasteReportService(reportRepo, hub, conf)
	assignment := NewAssignmentService(userRepo, reportRepo, hub, nil, conf)
	completion := NewCompletionService(userRepo, reportRepo, hub, nil, conf)
	engine := NewLifecycleEngine(hub, assignment, completion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx)

	created, err := reportService.CreateReport("res1", &models.CreateReportRequest{
		LocationText: "Main St",
		Latitude:     1.0,
		Longitude:    2.0,
	})
	require.NoError(t, err)

	assigned := waitForReport(t, reportRepo, created.ID, func(r *models.WasteReport) bool {
		return r.Status == models.StatusAssigned
	})
	assert.Equal(t, "w1", assigned.AssignedWorkerID)

	_, err = reportService.CollectReport(created.ID, "w1", "p1")
	require.NoError(t, err)

	finalized := waitForReport(t, reportRepo, created.ID, func(r *models.WasteReport) bool {
		return r.CollectedAt != nil
	})
	assert.Equal(t, 10, finalized.RewardAmount)

	worker, err := userRepo.FindUserByUserID("w1")
	require.NoError(t, err)
	assert.Equal(t, 10, worker.RewardPoints)
}

func waitForReport(t *testing.T, repo *mockReportRepo, id string, cond func(*models.WasteReport) bool) *models.WasteReport {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		report, err := repo.GetReportByID(id)
		if err == nil && cond(report) {
			return report
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("report %s never reached the expected state", id)
	return nil
}
