package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/cleancity/models"
	"gorm.io/gorm"
)

type WasteReportRepository interface {
	CreateReport(report *models.WasteReport) (*models.WasteReport, error)
	GetReportByID(reportID string) (*models.WasteReport, error)
	GetReportsByResidentID(residentID string) ([]models.WasteReport, error)
	GetReportsByWorkerID(workerID string) ([]models.WasteReport, error)
	AssignReport(reportID string, workerID string) (int64, error)
	MarkCollected(reportID string, pickupPhotoURL string) (int64, error)
	FinalizeReport(reportID string, rewardAmount int, collectedAt time.Time) (int64, error)
}

type wasteReportRepo struct {
	DB *gorm.DB
}

func NewWasteReportRepo(db *GormDB) WasteReportRepository {
	return &wasteReportRepo{db.DB}
}

func (r *wasteReportRepo) CreateReport(report *models.WasteReport) (*models.WasteReport, error) {
	if err := r.DB.Create(report).Error; err != nil {
		return nil, errors.Wrap(err, "could not create waste report")
	}
	return report, nil
}

func (r *wasteReportRepo) GetReportByID(reportID string) (*models.WasteReport, error) {
	var report models.WasteReport
	if err := r.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *wasteReportRepo) GetReportsByResidentID(residentID string) ([]models.WasteReport, error) {
	var reports []models.WasteReport
	err := r.DB.Where("resident_id = ?", residentID).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *wasteReportRepo) GetReportsByWorkerID(workerID string) ([]models.WasteReport, error) {
	var reports []models.WasteReport
	err := r.DB.Where("assigned_worker_id = ?", workerID).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// AssignReport binds a worker with a conditional update: only a report
// still pending and unassigned is touched. Duplicate deliveries of the
// creation event race here and exactly one wins; the loser sees zero
// rows affected.
func (r *wasteReportRepo) AssignReport(reportID string, workerID string) (int64, error) {
	result := r.DB.Model(&models.WasteReport{}).
		Where("id = ? AND status = ? AND (assigned_worker_id IS NULL OR assigned_worker_id = '')",
			reportID, models.StatusPending).
		Updates(map[string]interface{}{
			"assigned_worker_id": workerID,
			"status":             models.StatusAssigned,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "could not assign report")
	}
	return result.RowsAffected, nil
}

// MarkCollected records the pickup, guarded so only an assigned report
// moves forward.
func (r *wasteReportRepo) MarkCollected(reportID string, pickupPhotoURL string) (int64, error) {
	result := r.DB.Model(&models.WasteReport{}).
		Where("id = ? AND status = ?", reportID, models.StatusAssigned).
		Updates(map[string]interface{}{
			"status":           models.StatusCollected,
			"pickup_photo_url": pickupPhotoURL,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "could not mark report collected")
	}
	return result.RowsAffected, nil
}

// FinalizeReport stamps the reward and completion time, conditional on
// collected_at still being null. This is the single defense against
// double crediting under concurrent completion triggers.
func (r *wasteReportRepo) FinalizeReport(reportID string, rewardAmount int, collectedAt time.Time) (int64, error) {
	result := r.DB.Model(&models.WasteReport{}).
		Where("id = ? AND status = ? AND collected_at IS NULL", reportID, models.StatusCollected).
		Updates(map[string]interface{}{
			"reward_amount": rewardAmount,
			"collected_at":  collectedAt,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "could not finalize report")
	}
	return result.RowsAffected, nil
}
