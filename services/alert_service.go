package services

import (
	"log"

	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/mailingservices"
	"github.com/techagentng/cleancity/models"
)

// AlertService covers the out-of-band worker alerts that complement the
// realtime feed: a persisted notification row, an Expo push, and a
// fallback email. All of it is best effort; assignment never fails
// because an alert did.
type AlertService interface {
	NotifyTaskAssigned(worker *models.User, report *models.WasteReport)
}

type alertService struct {
	userRepo db.UserRepository
	push     *NotificationService
	mail     *mailingservices.Mailgun
}

func NewAlertService(userRepo db.UserRepository, push *NotificationService, mail *mailingservices.Mailgun) AlertService {
	return &alertService{
		userRepo: userRepo,
		push:     push,
		mail:     mail,
	}
}

func (s *alertService) NotifyTaskAssigned(worker *models.User, report *models.WasteReport) {
	message := TaskAssignedMessage(report)

	notification := &models.Notification{
		UserID:   worker.UserID,
		ReportID: report.ID,
		Message:  message,
	}
	if err := s.userRepo.SaveNotification(notification); err != nil {
		log.Printf("Error saving notification for worker %s: %v", worker.UserID, err)
	}

	if s.push != nil && worker.ExpoPushToken != "" {
		err := s.push.SendPushNotification(worker.ExpoPushToken, "New Task Assigned", message, map[string]interface{}{
			"reportId": report.ID,
		})
		if err != nil {
			log.Printf("Error sending push to worker %s: %v", worker.UserID, err)
		}
	}

	if s.mail != nil && worker.Email != "" {
		if err := s.mail.SendTaskAssignedEmail(worker.Email, report); err != nil {
			log.Printf("Error emailing worker %s: %v", worker.UserID, err)
		}
	}
}
