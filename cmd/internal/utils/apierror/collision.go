package apierror

import (
	"net/http"

	"mentoring/cmd/internal/domain/entity"
)

// CollisionError reports every candidate slot that exactly matched an
// already published one. The whole batch is refused, so the caller gets
// the full list in one round trip.
type CollisionError struct {
	StatusCode int               `json:"-"`
	Msg        string            `json:"message"`
	Collisions []*entity.Meeting `json:"collision_meetings"`
}

func (e *CollisionError) Code() int       { return e.StatusCode }
func (e *CollisionError) Message() string { return e.Msg }

func NewCollisionError(collisions []*entity.Meeting) *CollisionError {
	return &CollisionError{
		StatusCode: http.StatusConflict,
		Msg:        "Meetings already exist",
		Collisions: collisions,
	}
}
