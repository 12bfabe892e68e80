package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
)

// Entry is one successful mutation as kept in the journal.
type Entry struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Action    string         `db:"action" json:"action"`
	RecordID  null.String    `db:"record_id" json:"record_id"`
	ActorID   string         `db:"actor_id" json:"actor_id"`
	ActorName string         `db:"actor_name" json:"actor_name"`
	Fields    pq.StringArray `db:"fields" json:"fields"`
	Message   string         `db:"message" json:"message"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// QueryFilter narrows List. Zero values match everything.
type QueryFilter struct {
	Action   string
	RecordID string
	Limit    int
}
