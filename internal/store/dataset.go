package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/siag/internal/model"
)

// DatasetStore holds the case collections. They are written once at seed
// time and read back as a whole into a model.Snapshot.
type DatasetStore struct {
	db *sql.DB
}

func NewDatasetStore(db *sql.DB) *DatasetStore {
	return &DatasetStore{db: db}
}

// datasetTables lists tables children first, the order in which they are
// cleared.
var datasetTables = []string{
	"download_logs", "alerts", "evidence_items", "evidence_requests",
	"task_assignees", "tasks", "deadlines", "hearings", "cases", "companies",
}

// Replace swaps the stored dataset for snap in one transaction.
func (s *DatasetStore) Replace(ctx context.Context, snap *model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range datasetTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, c := range snap.Companies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (id, name) VALUES (?, ?)`,
			c.ID, c.Name,
		); err != nil {
			return fmt.Errorf("insert company %s: %w", c.ID, err)
		}
	}

	for _, c := range snap.Cases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cases (id, employee, case_number, responsible, lawyer, responsible_sector,
				company_id, status, confidentiality, theme, court, filed_at, closed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Employee, c.CaseNumber, c.Responsible, c.Lawyer, c.ResponsibleSector,
			c.CompanyID, c.Status, c.Confidentiality, c.Theme, c.Court, c.FiledAt, c.ClosedAt,
		); err != nil {
			return fmt.Errorf("insert case %s: %w", c.ID, err)
		}
	}

	for _, h := range snap.Hearings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hearings (id, case_id, date, time, type, court, employee, case_number, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.CaseID, h.Date, h.Time, h.Type, h.Court, h.Employee, h.CaseNumber, h.Status,
		); err != nil {
			return fmt.Errorf("insert hearing %s: %w", h.ID, err)
		}
	}

	for _, d := range snap.Deadlines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deadlines (id, case_id, due_date, title, status, employee, case_number)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.CaseID, d.DueDate, d.Title, d.Status, d.Employee, d.CaseNumber,
		); err != nil {
			return fmt.Errorf("insert deadline %s: %w", d.ID, err)
		}
	}

	for _, t := range snap.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, case_id, due_at, title, status, priority, show_in_calendar, employee, case_number)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, nullString(t.CaseID), t.DueAt, t.Title, t.Status, t.Priority, t.ShowInCalendar, t.Employee, t.CaseNumber,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
		for i, name := range t.Assignees {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO task_assignees (task_id, position, name) VALUES (?, ?, ?)`,
				t.ID, i, name,
			); err != nil {
				return fmt.Errorf("insert assignee of task %s: %w", t.ID, err)
			}
		}
	}

	for _, r := range snap.EvidenceRequests {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO evidence_requests (id, case_id, title, status, requested_at) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.CaseID, r.Title, r.Status, r.RequestedAt,
		); err != nil {
			return fmt.Errorf("insert evidence request %s: %w", r.ID, err)
		}
	}

	for _, i := range snap.EvidenceItems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO evidence_items (id, case_id, category, status) VALUES (?, ?, ?, ?)`,
			i.ID, i.CaseID, i.Category, i.Status,
		); err != nil {
			return fmt.Errorf("insert evidence item %s: %w", i.ID, err)
		}
	}

	for _, a := range snap.Alerts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO alerts (id, case_id, title, severity, treated) VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.CaseID, a.Title, a.Severity, a.Treated,
		); err != nil {
			return fmt.Errorf("insert alert %s: %w", a.ID, err)
		}
	}

	for _, l := range snap.DownloadLogs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO download_logs (id, case_id, user_name, watermarked) VALUES (?, ?, ?, ?)`,
			l.ID, l.CaseID, l.User, l.Watermarked,
		); err != nil {
			return fmt.Errorf("insert download log %s: %w", l.ID, err)
		}
	}

	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Snapshot reads every collection and returns them indexed. Rows come back
// in insertion order.
func (s *DatasetStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	var err error

	if snap.Companies, err = s.Companies(ctx); err != nil {
		return nil, err
	}
	if snap.Cases, err = s.cases(ctx); err != nil {
		return nil, err
	}
	if snap.Hearings, err = s.hearings(ctx); err != nil {
		return nil, err
	}
	if snap.Deadlines, err = s.deadlines(ctx); err != nil {
		return nil, err
	}
	if snap.Tasks, err = s.tasks(ctx); err != nil {
		return nil, err
	}
	if snap.EvidenceRequests, err = s.evidenceRequests(ctx); err != nil {
		return nil, err
	}
	if snap.EvidenceItems, err = s.evidenceItems(ctx); err != nil {
		return nil, err
	}
	if snap.Alerts, err = s.alerts(ctx); err != nil {
		return nil, err
	}
	if snap.DownloadLogs, err = s.downloadLogs(ctx); err != nil {
		return nil, err
	}

	snap.Index()
	return &snap, nil
}

func (s *DatasetStore) Companies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM companies ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *DatasetStore) cases(ctx context.Context) ([]model.Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee, case_number, responsible, lawyer, responsible_sector, company_id,
			status, confidentiality, theme, court, filed_at, closed_at
		FROM cases ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []model.Case
	for rows.Next() {
		var c model.Case
		if err := rows.Scan(&c.ID, &c.Employee, &c.CaseNumber, &c.Responsible, &c.Lawyer,
			&c.ResponsibleSector, &c.CompanyID, &c.Status, &c.Confidentiality, &c.Theme,
			&c.Court, &c.FiledAt, &c.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *DatasetStore) hearings(ctx context.Context) ([]model.Hearing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, date, time, type, court, employee, case_number, status
		FROM hearings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list hearings: %w", err)
	}
	defer rows.Close()

	var out []model.Hearing
	for rows.Next() {
		var h model.Hearing
		if err := rows.Scan(&h.ID, &h.CaseID, &h.Date, &h.Time, &h.Type, &h.Court,
			&h.Employee, &h.CaseNumber, &h.Status); err != nil {
			return nil, fmt.Errorf("scan hearing: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *DatasetStore) deadlines(ctx context.Context) ([]model.Deadline, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, due_date, title, status, employee, case_number
		FROM deadlines ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	defer rows.Close()

	var out []model.Deadline
	for rows.Next() {
		var d model.Deadline
		if err := rows.Scan(&d.ID, &d.CaseID, &d.DueDate, &d.Title, &d.Status,
			&d.Employee, &d.CaseNumber); err != nil {
			return nil, fmt.Errorf("scan deadline: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *DatasetStore) tasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, due_at, title, status, priority, show_in_calendar, employee, case_number
		FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []model.Task
	index := make(map[string]int)
	for rows.Next() {
		var t model.Task
		var caseID sql.NullString
		if err := rows.Scan(&t.ID, &caseID, &t.DueAt, &t.Title, &t.Status, &t.Priority,
			&t.ShowInCalendar, &t.Employee, &t.CaseNumber); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.CaseID = caseID.String
		index[t.ID] = len(out)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	rows.Close()

	arows, err := s.db.QueryContext(ctx,
		`SELECT task_id, name FROM task_assignees ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list task assignees: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var taskID, name string
		if err := arows.Scan(&taskID, &name); err != nil {
			return nil, fmt.Errorf("scan task assignee: %w", err)
		}
		if i, ok := index[taskID]; ok {
			out[i].Assignees = append(out[i].Assignees, name)
		}
	}
	return out, arows.Err()
}

func (s *DatasetStore) evidenceRequests(ctx context.Context) ([]model.EvidenceRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, title, status, requested_at FROM evidence_requests ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list evidence requests: %w", err)
	}
	defer rows.Close()

	var out []model.EvidenceRequest
	for rows.Next() {
		var r model.EvidenceRequest
		if err := rows.Scan(&r.ID, &r.CaseID, &r.Title, &r.Status, &r.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan evidence request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *DatasetStore) evidenceItems(ctx context.Context) ([]model.EvidenceItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, category, status FROM evidence_items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list evidence items: %w", err)
	}
	defer rows.Close()

	var out []model.EvidenceItem
	for rows.Next() {
		var i model.EvidenceItem
		if err := rows.Scan(&i.ID, &i.CaseID, &i.Category, &i.Status); err != nil {
			return nil, fmt.Errorf("scan evidence item: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *DatasetStore) alerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, title, severity, treated FROM alerts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.CaseID, &a.Title, &a.Severity, &a.Treated); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *DatasetStore) downloadLogs(ctx context.Context) ([]model.DownloadLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, user_name, watermarked FROM download_logs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list download logs: %w", err)
	}
	defer rows.Close()

	var out []model.DownloadLog
	for rows.Next() {
		var l model.DownloadLog
		if err := rows.Scan(&l.ID, &l.CaseID, &l.User, &l.Watermarked); err != nil {
			return nil, fmt.Errorf("scan download log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
