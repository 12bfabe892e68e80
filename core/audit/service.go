package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/collegedesk/console/core"
)

// DefaultLimit caps List when the filter sets no limit.
const DefaultLimit = 50

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		// FilterEntries returns the newest entries first.
		FilterEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record journals a success notification.
func (svc *Service) Record(ctx context.Context, n core.Notification) (Entry, error) {
	at := n.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	e := Entry{
		ID:        uuid.New(),
		Action:    n.Action,
		RecordID:  null.NewString(n.RecordID, n.RecordID != ""),
		ActorID:   n.Viewer.ID,
		ActorName: n.Viewer.Name,
		Fields:    append([]string{}, n.Fields...),
		Message:   n.Message,
		CreatedAt: at,
	}
	e, err := svc.repo.CreateEntry(ctx, e)
	if err != nil {
		return Entry{}, errors.Wrap(err, "creating audit entry")
	}
	return e, nil
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	entries, err := svc.repo.FilterEntries(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "listing audit entries")
	}
	return entries, nil
}
