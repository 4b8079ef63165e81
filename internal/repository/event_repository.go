package repository

import (
	"errors"

	"skillify_backend/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) FindByUser(userID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.DB.Where("user_id = ?", userID).Order("date_key ASC").Find(&events).Error
	return events, err
}

// Upsert sets the title of the user's event on dateKey, creating it if needed.
func (r *EventRepository) Upsert(userID uint, dateKey, title string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var event model.Event
		err := tx.Where("user_id = ? AND date_key = ?", userID, dateKey).First(&event).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.Event{UserID: userID, DateKey: dateKey, Title: title}).Error
		}
		if err != nil {
			return err
		}
		event.Title = title
		return tx.Save(&event).Error
	})
}

func (r *EventRepository) Delete(userID uint, dateKey string) error {
	return r.DB.Unscoped().
		Where("user_id = ? AND date_key = ?", userID, dateKey).
		Delete(&model.Event{}).Error
}
