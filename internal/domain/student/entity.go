package student

import (
	"time"
)

type Student struct {
	ID        string
	Name      string
	Grade     string
	Class     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
