package db

import (
	"log"

	"github.com/pkg/errors"
	"github.com/techagentng/cleancity/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByUserID(userID string) (*models.User, error)
	GetWorkers() ([]models.User, error)
	AddRewardPoints(userID string, points int) error
	UpdateExpoPushToken(userID string, token string) error
	AddToBlacklist(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	SaveNotification(notification *models.Notification) error
	GetNotificationsByUserID(userID string) ([]models.Notification, error)
	MarkNotificationRead(id uint, userID string) error
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (a *userRepo) CreateUser(user *models.User) (*models.User, error) {
	if err := a.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (a *userRepo) IsEmailExist(email string) error {
	var count int64
	if err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *userRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUserID looks a profile up by its stable identity reference.
// Exactly one row exists per userId; duplicates are an external-data
// integrity concern, not handled here.
func (a *userRepo) FindUserByUserID(userID string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *userRepo) GetWorkers() ([]models.User, error) {
	var workers []models.User
	if err := a.DB.Where("role = ?", models.RoleWorker).Find(&workers).Error; err != nil {
		return nil, errors.Wrap(err, "could not list workers")
	}
	return workers, nil
}

// AddRewardPoints credits a worker with a single atomic SQL increment so
// concurrent completions for the same worker never lose an update.
func (a *userRepo) AddRewardPoints(userID string, points int) error {
	result := a.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("reward_points", gorm.Expr("reward_points + ?", points))
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not add reward points")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *userRepo) UpdateExpoPushToken(userID string, token string) error {
	return a.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("expo_push_token", token).Error
}

func (a *userRepo) AddToBlacklist(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *userRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("Error checking token blacklist: %v", err)
		return false
	}
	return count > 0
}

func (a *userRepo) SaveNotification(notification *models.Notification) error {
	return a.DB.Create(notification).Error
}

func (a *userRepo) GetNotificationsByUserID(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := a.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (a *userRepo) MarkNotificationRead(id uint, userID string) error {
	return a.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}
