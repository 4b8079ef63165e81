package service

import (
	"skillify_backend/internal/repository"
)

type CalendarService struct {
	EventRepo *repository.EventRepository
}

func NewCalendarService(eventRepo *repository.EventRepository) *CalendarService {
	return &CalendarService{EventRepo: eventRepo}
}

// Events maps each day key to the note saved on it.
func (s *CalendarService) Events(userID uint) (map[string]string, error) {
	events, err := s.EventRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(events))
	for _, e := range events {
		out[e.DateKey] = e.Title
	}
	return out, nil
}

// Save stores title on dateKey; an empty title removes the note. It reports
// whether the note was deleted.
func (s *CalendarService) Save(userID uint, dateKey, title string) (deleted bool, err error) {
	if title == "" {
		return true, s.EventRepo.Delete(userID, dateKey)
	}
	return false, s.EventRepo.Upsert(userID, dateKey, title)
}
