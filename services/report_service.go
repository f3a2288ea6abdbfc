package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/models"
	"github.com/techagentng/cleancity/realtime"
)

// WasteReportService is the client-facing data boundary for reports.
// Every mutation it performs is published on the realtime hub, which is
// what drives the lifecycle handlers and the worker notifier.
type WasteReportService interface {
	CreateReport(residentID string, req *models.CreateReportRequest) (*models.WasteReport, error)
	GetReportsForUser(user *models.User) ([]models.WasteReport, error)
	GetReportByID(reportID string) (*models.WasteReport, error)
	CollectReport(reportID string, workerID string, pickupPhotoURL string) (*models.WasteReport, error)
}

type wasteReportService struct {
	Config     *config.Config
	reportRepo db.WasteReportRepository
	hub        *realtime.Hub
}

func NewWasteReportService(reportRepo db.WasteReportRepository, hub *realtime.Hub, conf *config.Config) WasteReportService {
	return &wasteReportService{
		Config:     conf,
		reportRepo: reportRepo,
		hub:        hub,
	}
}

// CreateReport stores a new report. Status is always pending here,
// regardless of anything the caller sent.
func (s *wasteReportService) CreateReport(residentID string, req *models.CreateReportRequest) (*models.WasteReport, error) {
	if err := models.ConformInput(req); err != nil {
		return nil, fmt.Errorf("error normalizing report input: %w", err)
	}

	report := &models.WasteReport{
		ID:            uuid.New().String(),
		ResidentID:    residentID,
		LocationText:  req.LocationText,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		WastePhotoURL: req.WastePhotoURL,
		Status:        models.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.reportRepo.CreateReport(report)
	if err != nil {
		return nil, err
	}

	s.hub.PublishCreate(*created)
	return created, nil
}

// GetReportsForUser lists a resident's own reports, or the tasks
// assigned to a worker.
func (s *wasteReportService) GetReportsForUser(user *models.User) ([]models.WasteReport, error) {
	if user.IsWorker() {
		return s.reportRepo.GetReportsByWorkerID(user.UserID)
	}
	return s.reportRepo.GetReportsByResidentID(user.UserID)
}

func (s *wasteReportService) GetReportByID(reportID string) (*models.WasteReport, error) {
	return s.reportRepo.GetReportByID(reportID)
}

// CollectReport is the worker marking a pickup done. Only the assigned
// worker can collect, and only from the assigned state.
func (s *wasteReportService) CollectReport(reportID string, workerID string, pickupPhotoURL string) (*models.WasteReport, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.AssignedWorkerID != workerID {
		return nil, fmt.Errorf("report %s is not assigned to worker %s", reportID, workerID)
	}

	rows, err := s.reportRepo.MarkCollected(reportID, pickupPhotoURL)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("report %s is not awaiting collection", reportID)
	}

	updated, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}

	s.hub.PublishUpdate(*updated)
	return updated, nil
}
