package services

import (
	"sync"
	"time"

	"github.com/techagentng/cleancity/models"
	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories. They reproduce the
// conditional-update semantics of the real queries so the handler
// guards can be exercised without a database.

type mockUserRepo struct {
	mu            sync.Mutex
	users         map[string]*models.User // keyed by UserID
	notifications []models.Notification
	creditCalls   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) addUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := u
	m.users[u.UserID] = &stored
}

func (m *mockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	m.addUser(*user)
	return user, nil
}

func (m *mockUserRepo) IsEmailExist(email string) error { return nil }

func (m *mockUserRepo) FindUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindUserByUserID(userID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetWorkers() ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var workers []models.User
	for _, u := range m.users {
		if u.Role == models.RoleWorker {
			workers = append(workers, *u)
		}
	}
	return workers, nil
}

func (m *mockUserRepo) AddRewardPoints(userID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creditCalls++
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.RewardPoints += points
	return nil
}

func (m *mockUserRepo) UpdateExpoPushToken(userID string, token string) error { return nil }
func (m *mockUserRepo) AddToBlacklist(b *models.Blacklist) error              { return nil }
func (m *mockUserRepo) IsTokenInBlacklist(token string) bool                  { return false }

func (m *mockUserRepo) SaveNotification(n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockUserRepo) GetNotificationsByUserID(userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockUserRepo) MarkNotificationRead(id uint, userID string) error { return nil }

type mockReportRepo struct {
	mu         sync.Mutex
	reports    map[string]*models.WasteReport
	writeCalls int
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*models.WasteReport)}
}

func (m *mockReportRepo) addReport(r models.WasteReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := r
	m.reports[r.ID] = &stored
}

func (m *mockReportRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeCalls
}

func (m *mockReportRepo) CreateReport(report *models.WasteReport) (*models.WasteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++
	stored := *report
	m.reports[report.ID] = &stored
	result := stored
	return &result, nil
}

func (m *mockReportRepo) GetReportByID(reportID string) (*models.WasteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[reportID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *r
	return &result, nil
}

func (m *mockReportRepo) GetReportsByResidentID(residentID string) ([]models.WasteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WasteReport
	for _, r := range m.reports {
		if r.ResidentID == residentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) GetReportsByWorkerID(workerID string) ([]models.WasteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WasteReport
	for _, r := range m.reports {
		if r.AssignedWorkerID == workerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) AssignReport(reportID string, workerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++
	r, ok := m.reports[reportID]
	if !ok || r.Status != models.StatusPending || r.AssignedWorkerID != "" {
		return 0, nil
	}
	r.AssignedWorkerID = workerID
	r.Status = models.StatusAssigned
	return 1, nil
}

func (m *mockReportRepo) MarkCollected(reportID string, pickupPhotoURL string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++
	r, ok := m.reports[reportID]
	if !ok || r.Status != models.StatusAssigned {
		return 0, nil
	}
	r.Status = models.StatusCollected
	r.PickupPhotoURL = pickupPhotoURL
	return 1, nil
}

func (m *mockReportRepo) FinalizeReport(reportID string, rewardAmount int, collectedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCalls++
	r, ok := m.reports[reportID]
	if !ok || r.Status != models.StatusCollected || r.CollectedAt != nil {
		return 0, nil
	}
	r.RewardAmount = rewardAmount
	t := collectedAt
	r.CollectedAt = &t
	return 1, nil
}
