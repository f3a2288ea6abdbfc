package services

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
)

// AssignmentService is the handler fired once per report creation event.
// It holds no state between invocations; everything is reconstructed
// from the trigger payload and the store.
type AssignmentService interface {
	AssignWorker(report *models.WasteReport) *models.HandlerResult
}

type assignmentService struct {
	Config     *config.Config
	userRepo   db.UserRepository
	reportRepo db.WasteReportRepository
	hub        *realtime.Hub
	alerts     AlertService
}

func NewAssignmentService(userRepo db.UserRepository, reportRepo db.WasteReportRepository, hub *realtime.Hub, alerts AlertService, conf *config.Config) AssignmentService {
	return &assignmentService{
		Config:     conf,
		userRepo:   userRepo,
		reportRepo: reportRepo,
		hub:        hub,
		alerts:     alerts,
	}
}

// AssignWorker picks a worker uniformly at random and binds it to the
// report. A report already advanced past pending is a no-op success so
// duplicate trigger delivery stays harmless.
func (s *assignmentService) AssignWorker(report *models.WasteReport) *models.HandlerResult {
	if report == nil || report.ID == "" {
		return &models.HandlerResult{
			Success: false,
			Message: "Invalid trigger payload.",
			Error:   "report payload is missing or has no id",
		}
	}

	if report.Status != models.StatusPending || report.AssignedWorkerID != "" {
		return &models.HandlerResult{
			Success: true,
			Message: "Report already assigned or not pending.",
		}
	}

	workers, err := s.userRepo.GetWorkers()
	if err != nil {
		log.Printf("Error listing workers for report %s: %v", report.ID, err)
		return &models.HandlerResult{
			Success: false,
			Message: "Internal Server Error",
			Error:   err.Error(),
		}
	}
	if len(workers) == 0 {
		log.Printf("No workers found to assign for report %s", report.ID)
		return &models.HandlerResult{
			Success: false,
			Message: "No workers available.",
		}
	}

	// Uniform random pick. True round-robin would need persisted
	// rotation state; random keeps the handler stateless.
	selected := workers[rand.Intn(len(workers))]

	rows, err := s.reportRepo.AssignReport(report.ID, selected.UserID)
	if err != nil {
		log.Printf("Error assigning report %s: %v", report.ID, err)
		return &models.HandlerResult{
			Success: false,
			Message: "Internal Server Error",
			Error:   err.Error(),
		}
	}
	if rows == 0 {
		// Lost the conditional update to a concurrent invocation.
		return &models.HandlerResult{
			Success: true,
			Message: "Report already assigned or not pending.",
		}
	}

	updated, err := s.reportRepo.GetReportByID(report.ID)
	if err != nil {
		log.Printf("Error reloading report %s after assignment: %v", report.ID, err)
		return &models.HandlerResult{
			Success: false,
			Message: "Internal Server Error",
			Error:   err.Error(),
		}
	}

	s.hub.PublishUpdate(*updated)

	if s.alerts != nil {
		s.alerts.NotifyTaskAssigned(&selected, updated)
	}

	log.Printf("Assigned report %s to worker %s", report.ID, selected.UserID)
	return &models.HandlerResult{
		Success: true,
		Message: "Worker assigned successfully.",
		Data:    updated,
	}
}

// TaskAssignedMessage is the human copy used for the persisted
// notification and the push alert.
func TaskAssignedMessage(report *models.WasteReport) string {
	return fmt.Sprintf("New collection task at %s", report.LocationText)
}
