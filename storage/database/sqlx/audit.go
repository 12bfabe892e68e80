package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/collegedesk/console/core/audit"
)

const entryColumns = `id, action, record_id, actor_id, actor_name, fields, message, created_at`

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) CreateEntry(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	q := `INSERT INTO audit_entry (` + entryColumns + `)
		VALUES (:id, :action, :record_id, :actor_id, :actor_name, :fields, :message, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, e); err != nil {
		return audit.Entry{}, errors.Wrap(err, "inserting audit entry")
	}
	return e, nil
}

func (repo *auditRepository) FilterEntries(ctx context.Context, filter audit.QueryFilter) ([]audit.Entry, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Action != "" {
		args = append(args, filter.Action)
		where = append(where, "action = ?")
	}
	if filter.RecordID != "" {
		args = append(args, filter.RecordID)
		where = append(where, "record_id = ?")
	}

	q := `SELECT ` + entryColumns + ` FROM audit_entry`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += ` LIMIT ?`
	}

	entries := []audit.Entry{}
	if err := repo.db.SelectContext(ctx, &entries, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting audit entries")
	}
	return entries, nil
}
