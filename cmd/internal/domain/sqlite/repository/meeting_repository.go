package repository

import (
	"errors"

	"gorm.io/gorm"

	"mentoring/cmd/internal/domain/entity"
)

type DefaultMeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *DefaultMeetingRepository {
	return &DefaultMeetingRepository{db: db}
}

func (m *DefaultMeetingRepository) FindByID(id int) (*entity.Meeting, error) {
	var meeting entity.Meeting
	err := m.db.First(&meeting, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &meeting, err
}

func (m *DefaultMeetingRepository) FindAll() ([]*entity.Meeting, error) {
	var meetings []*entity.Meeting
	err := m.db.
		Order("meeting_date asc, start_time asc").
		Find(&meetings).Error
	return meetings, err
}

func (m *DefaultMeetingRepository) FindAllByBooked(booked bool) ([]*entity.Meeting, error) {
	var meetings []*entity.Meeting
	err := m.db.
		Where("booked = ?", booked).
		Order("meeting_date asc, start_time asc").
		Find(&meetings).Error
	return meetings, err
}

func (m *DefaultMeetingRepository) Save(meeting *entity.Meeting) error {
	return m.db.Save(meeting).Error
}

func (m *DefaultMeetingRepository) DeleteByID(id int) error {
	return m.db.Delete(&entity.Meeting{}, id).Error
}
