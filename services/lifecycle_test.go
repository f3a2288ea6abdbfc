package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
)

// Walks one report through its whole lifecycle the way production does:
// resident creates, assignment handler fires on the creation snapshot,
// worker collects, completion handler fires on the update snapshot.
func TestReportLifecycle_EndToEnd(t *testing.T) {
	userRepo := newMockUserRepo()
	reportRepo := newMockReportRepo()
	hub := realtime.NewHub()
	conf := testConfig()

	userRepo.addUser(models.User{UserID: "res1", Email: "res1@example.com", Role: models.RoleResident})
	userRepo.addUser(models.User{UserID: "w1", Email: "w1@example.com", Role: models.RoleWorker, RewardPoints: 3})

	reportService := NewWasteReportService(reportRepo, hub, conf)
	assignment := NewAssignmentService(userRepo, reportRepo, hub, nil, conf)
	completion := NewCompletionService(userRepo, reportRepo, hub, nil, conf)

	created, err := reportService.CreateReport("res1", &models.CreateReportRequest{
		LocationText:  "Main St",
		Latitude:      1.0,
		Longitude:     2.0,
		WastePhotoURL: "f1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Empty(t, created.AssignedWorkerID)
	assert.False(t, created.CreatedAt.IsZero())

	assignResult := assignment.AssignWorker(created)
	require.True(t, assignResult.Success)
	assert.Equal(t, models.StatusAssigned, assignResult.Data.Status)
	assert.Equal(t, "w1", assignResult.Data.AssignedWorkerID)

	collected, err := reportService.CollectReport(created.ID, "w1", "p1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCollected, collected.Status)
	assert.Equal(t, "p1", collected.PickupPhotoURL)

	completeResult := completion.CompleteTask(collected)
	require.True(t, completeResult.Success)

	final, err := reportRepo.GetReportByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, final.RewardAmount)
	require.NotNil(t, final.CollectedAt)

	worker, err := userRepo.FindUserByUserID("w1")
	require.NoError(t, err)
	assert.Equal(t, 13, worker.RewardPoints, "w1 starts at 3 and earns 10")
}

func TestCollectReport_RejectsWrongWorker(t *testing.T) {
	userRepo := newMockUserRepo()
	reportRepo := newMockReportRepo()
	hub := realtime.NewHub()
	conf := testConfig()

	userRepo.addUser(models.User{UserID: "w1", Email: "w1@example.com", Role: models.RoleWorker})
	userRepo.addUser(models.User{UserID: "w2", Email: "w2@example.com", Role: models.RoleWorker})

	report := pendingReport("r1", "res1")
	report.Status = models.StatusAssigned
	report.AssignedWorkerID = "w1"
	reportRepo.addReport(report)

	reportService := NewWasteReportService(reportRepo, hub, conf)

	_, err := reportService.CollectReport("r1", "w2", "p1")
	require.Error(t, err)

	stored, getErr := reportRepo.GetReportByID("r1")
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusAssigned, stored.Status)
}

func TestCreateReport_AlwaysStoresPending(t *testing.T) {
	reportRepo := newMockReportRepo()
	hub := realtime.NewHub()

	sub := hub.Subscribe()
	defer sub.Unsubscribe()

	reportService := NewWasteReportService(reportRepo, hub, testConfig())
	created, err := reportService.CreateReport("res1", &models.CreateReportRequest{
		LocationText: "  Main St  ",
		Latitude:     1.0,
		Longitude:    2.0,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Main St", created.LocationText, "input is conformed")

	// Creation is announced on the feed with the creation pattern.
	event := <-sub.C
	assert.True(t, event.Matches(realtime.CreatePattern))
	assert.Equal(t, created.ID, event.Payload.ID)
}
