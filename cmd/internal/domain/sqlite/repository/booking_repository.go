package repository

import (
	"errors"

	"gorm.io/gorm"

	"mentoring/cmd/internal/domain/entity"
)

type DefaultBookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *DefaultBookingRepository {
	return &DefaultBookingRepository{db: db}
}

func (b *DefaultBookingRepository) FindByID(id int) (*entity.Booking, error) {
	var booking entity.Booking
	err := b.db.First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &booking, err
}

func (b *DefaultBookingRepository) FindByMeetingID(meetingId int) (*entity.Booking, error) {
	var booking entity.Booking
	err := b.db.Where("meeting_id = ?", meetingId).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &booking, err
}

func (b *DefaultBookingRepository) FindAll() ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	err := b.db.Find(&bookings).Error
	return bookings, err
}

func (b *DefaultBookingRepository) FindAllByStudentID(studentId int) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	err := b.db.Where("student_id = ?", studentId).Find(&bookings).Error
	return bookings, err
}

// Save relies on the unique index on meeting_id: when two callers race
// to book the same meeting, the second insert comes back with
// gorm.ErrDuplicatedKey and the service reports AlreadyBooked.
func (b *DefaultBookingRepository) Save(booking *entity.Booking) error {
	return b.db.Save(booking).Error
}

func (b *DefaultBookingRepository) DeleteByID(id int) error {
	return b.db.Delete(&entity.Booking{}, id).Error
}
