package models

// Notification is the persisted copy of a worker alert, so a worker who
// was offline when a task was assigned still sees it on next login.
type Notification struct {
	Model
	UserID   string `json:"userId" gorm:"index;not null"`
	ReportID string `json:"reportId" gorm:"type:varchar(36);index"`
	Message  string `json:"message"`
	IsRead   bool   `json:"is_read" gorm:"default:false"`
}
