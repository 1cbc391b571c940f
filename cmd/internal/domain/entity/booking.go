package entity

// Booking ties a student to exactly one meeting. The unique index on
// MeetingID is the storage-level guarantee that a meeting carries at
// most one booking, whatever two racing callers believe.
type Booking struct {
	ID        int   `gorm:"primaryKey" json:"id"`
	MeetingID int   `gorm:"not null;uniqueIndex" json:"meeting_id"` // References: meetings(id)
	StudentID int   `gorm:"not null" json:"student_id"`             // References: users(id)
	CreatedAt int64 `gorm:"not null" json:"-"`

	// Relations
	Meeting Meeting `gorm:"foreignKey:MeetingID;references:ID" json:"-"`
	Student User    `gorm:"foreignKey:StudentID;references:ID" json:"-"`
}
