package entity

// Meeting is a single bookable 15-minute slot published by the mentor.
// MeetingDate is "2006-01-02", StartTime/EndTime are "15:04" wall-clock
// values on a single local clock.
type Meeting struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	MeetingDate string `gorm:"not null" json:"meeting_date"`
	StartTime   string `gorm:"not null" json:"start_time"`
	EndTime     string `gorm:"not null" json:"end_time"`
	MentorID    int    `gorm:"not null" json:"mentor_id"` // References: users(id)
	Booked      bool   `gorm:"not null" json:"booked"`
	CreatedAt   int64  `gorm:"not null" json:"-"`
	UpdatedAt   int64  `gorm:"not null" json:"-"`

	// Relations
	Mentor User `gorm:"foreignKey:MentorID;references:ID" json:"-"`
}

// SameMoment reports whether two meetings occupy the exact same
// (date, start, end) triple. Partial overlap does not count.
func (m *Meeting) SameMoment(other *Meeting) bool {
	return m.MeetingDate == other.MeetingDate &&
		m.StartTime == other.StartTime &&
		m.EndTime == other.EndTime
}
