package entity

const (
	RoleMentor  = "mentor"
	RoleStudent = "student"
)

type User struct {
	ID            int    `gorm:"primaryKey" json:"id"`
	SubUUID       string `gorm:"not null;uniqueIndex" json:"-"`
	Username      string `gorm:"not null" json:"username"`
	Email         string `gorm:"not null;uniqueIndex" json:"email"`
	Role          string `gorm:"not null" json:"role"`
	EmailVerified bool   `gorm:"not null" json:"-"`
	CreatedAt     int64  `gorm:"not null" json:"-"`
	UpdatedAt     int64  `gorm:"not null" json:"-"`
}
