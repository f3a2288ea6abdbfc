package services

import (
	"log"
	"time"

	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
)

// RewardPolicy decides how many points a collected report is worth.
// The fixed amount is a placeholder until a real scoring rule (waste
// volume, photo verification) lands.
type RewardPolicy func(report *models.WasteReport) int

// FixedReward awards the same number of points for every collection.
func FixedReward(points int) RewardPolicy {
	return func(*models.WasteReport) int {
		return points
	}
}

// CompletionService is the handler fired once per report update event.
// It finalizes a report that transitioned into collected and credits
// the assigned worker exactly once.
type CompletionService interface {
	CompleteTask(report *models.WasteReport) *models.HandlerResult
}

type completionService struct {
	Config     *config.Config
	userRepo   db.UserRepository
	reportRepo db.WasteReportRepository
	hub        *realtime.Hub
	policy     RewardPolicy
}

func NewCompletionService(userRepo db.UserRepository, reportRepo db.WasteReportRepository, hub *realtime.Hub, policy RewardPolicy, conf *config.Config) CompletionService {
	if policy == nil {
		policy = FixedReward(conf.RewardPoints)
	}
	return &completionService{
		Config:     conf,
		userRepo:   userRepo,
		reportRepo: reportRepo,
		hub:        hub,
		policy:     policy,
	}
}

// CompleteTask finalizes the record and credits the worker. Only the
// post-update image is available, so collected_at is the idempotency
// marker: already set means a previous invocation finished the job.
func (s *completionService) CompleteTask(report *models.WasteReport) *models.HandlerResult {
	if report == nil || report.ID == "" {
		return &models.HandlerResult{
			Success: false,
			Message: "Invalid trigger payload.",
			Error:   "report payload is missing or has no id",
		}
	}

	if report.Status != models.StatusCollected {
		return &models.HandlerResult{
			Success: true,
			Message: "Status is not collected. Ignoring.",
		}
	}
	if report.IsFinalized() {
		return &models.HandlerResult{
			Success: true,
			Message: "Task already marked as completed. Ignoring.",
		}
	}

	rewardPoints := s.policy(report)

	rows, err := s.reportRepo.FinalizeReport(report.ID, rewardPoints, time.Now().UTC())
	if err != nil {
		log.Printf("Error finalizing report %s: %v", report.ID, err)
		return &models.HandlerResult{
			Success: false,
			Message: "Internal Server Error",
			Error:   err.Error(),
		}
	}
	if rows == 0 {
		// A concurrent invocation won the conditional update and has
		// already credited the worker.
		return &models.HandlerResult{
			Success: true,
			Message: "Task already marked as completed. Ignoring.",
		}
	}

	// Crediting is best effort: the report is finalized either way.
	if report.AssignedWorkerID != "" {
		if err := s.userRepo.AddRewardPoints(report.AssignedWorkerID, rewardPoints); err != nil {
			log.Printf("Worker profile not found for ID %s: %v", report.AssignedWorkerID, err)
		} else {
			log.Printf("Awarded %d points to worker %s", rewardPoints, report.AssignedWorkerID)
		}
	}

	if finalized, err := s.reportRepo.GetReportByID(report.ID); err == nil {
		s.hub.PublishUpdate(*finalized)
	}

	return &models.HandlerResult{
		Success: true,
		Message: "Task completed and rewards assigned.",
	}
}
