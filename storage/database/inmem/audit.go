package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/collegedesk/console/core/audit"
)

type auditRepository struct {
	mutex   sync.RWMutex
	entries []audit.Entry
}

// NewAuditRepository returns a journal kept in memory, used when no database is configured.
func NewAuditRepository() audit.Repository {
	return &auditRepository{}
}

func (repo *auditRepository) CreateEntry(_ context.Context, e audit.Entry) (audit.Entry, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	e.Fields = append(e.Fields[:0:0], e.Fields...)
	repo.entries = append(repo.entries, e)
	return e, nil
}

func (repo *auditRepository) FilterEntries(_ context.Context, filter audit.QueryFilter) ([]audit.Entry, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	entries := make([]audit.Entry, 0, len(repo.entries))
	for _, e := range repo.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.RecordID != "" && e.RecordID.String != filter.RecordID {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}
