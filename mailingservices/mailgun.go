package mailingservices

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/models"
)

// Mailgun wraps the mailgun client for transactional mail.
type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init(c *config.Config) {
	m.Client = mailgun.NewMailgun(c.MgDomain, c.MailgunApiKey)
	m.From = c.MgEmailFrom
	log.Println("Mailgun client initialized")
}

// SendTaskAssignedEmail mails a worker about a freshly assigned pickup.
func (m *Mailgun) SendTaskAssignedEmail(workerEmail string, report *models.WasteReport) error {
	subject := "New waste collection task assigned"
	body := fmt.Sprintf(
		"A new waste report has been assigned to you.\n\nLocation: %s\nCoordinates: %f, %f\n\nOpen the app to view the task.",
		report.LocationText, report.Latitude, report.Longitude,
	)

	message := m.Client.NewMessage(m.From, subject, body, workerEmail)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}
