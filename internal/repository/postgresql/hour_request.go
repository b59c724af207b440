package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/jackc/pgx/v5"
)

type hourRequestRepositoryImpl struct {
	db *database.DB
}

func NewHourRequestRepository(db *database.DB) hourrequest.HourRequestRepository {
	return &hourRequestRepositoryImpl{db: db}
}

const hourRequestColumns = `
	h.id, h.employee_id, h.month, h.year, h.description, h.total_hours, h.status,
	h.rejection_reason, h.reviewed_by, h.reviewed_at, h.calculated_salary,
	h.submitted_at, h.created_at, h.updated_at, e.employee_number, e.name`

func scanHourRequest(row pgx.Row) (hourrequest.HourRequest, error) {
	var h hourrequest.HourRequest
	err := row.Scan(
		&h.ID, &h.EmployeeID, &h.Month, &h.Year, &h.Description, &h.TotalHours, &h.Status,
		&h.RejectionReason, &h.ReviewedBy, &h.ReviewedAt, &h.CalculatedSalary,
		&h.SubmittedAt, &h.CreatedAt, &h.UpdatedAt, &h.EmployeeNumber, &h.EmployeeName,
	)
	return h, err
}

func scanDetail(row pgx.Row) (hourrequest.Detail, error) {
	var d hourrequest.Detail
	var date time.Time
	var checkIn, checkOut *string
	if err := row.Scan(&d.ID, &d.RequestID, &date, &checkIn, &checkOut, &d.Hours, &d.TaskDescription); err != nil {
		return hourrequest.Detail{}, err
	}
	d.Date = timecalc.DateOf(date)

	var err error
	if d.CheckIn, err = parseOptionalClock(checkIn); err != nil {
		return hourrequest.Detail{}, fmt.Errorf("detail %s check_in %q: %w", d.ID, *checkIn, err)
	}
	if d.CheckOut, err = parseOptionalClock(checkOut); err != nil {
		return hourrequest.Detail{}, fmt.Errorf("detail %s check_out %q: %w", d.ID, *checkOut, err)
	}
	return d, nil
}

func parseOptionalClock(s *string) (*timecalc.Clock, error) {
	if s == nil {
		return nil, nil
	}
	c, err := timecalc.ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func clockArg(c *timecalc.Clock) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// Upsert implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) Upsert(ctx context.Context, req hourrequest.HourRequest) (hourrequest.HourRequest, error) {
	q := GetQuerier(ctx, r.db)

	// A reviewed request is overwritten back to PENDING; a pending one is left
	// untouched and no row is returned.
	query := `
		INSERT INTO hour_requests (employee_id, month, year, description, total_hours, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', NOW())
		ON CONFLICT ON CONSTRAINT hour_requests_employee_period_key DO UPDATE
		SET description = EXCLUDED.description,
			total_hours = EXCLUDED.total_hours,
			status = 'PENDING',
			rejection_reason = NULL,
			reviewed_by = NULL,
			reviewed_at = NULL,
			calculated_salary = NULL,
			submitted_at = NOW(),
			updated_at = NOW()
		WHERE hour_requests.status <> 'PENDING'
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, req.EmployeeID, req.Month, req.Year, req.Description, req.TotalHours).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hourrequest.HourRequest{}, hourrequest.ErrPendingExists
		}
		return hourrequest.HourRequest{}, fmt.Errorf("failed to upsert hour request: %w", err)
	}

	return r.getByID(ctx, id, false)
}

// ReplaceDetails implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) ReplaceDetails(ctx context.Context, requestID string, details []hourrequest.Detail) ([]hourrequest.Detail, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM hour_request_details WHERE request_id = $1`, requestID); err != nil {
		return nil, fmt.Errorf("failed to delete details of hour request %s: %w", requestID, err)
	}

	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(`
			INSERT INTO hour_request_details (request_id, date, check_in, check_out, hours, task_description)
			VALUES ($1, $2::date, $3, $4, $5, $6)
		`, requestID, d.Date.String(), clockArg(d.CheckIn), clockArg(d.CheckOut), d.Hours, d.TaskDescription)
	}
	// Details are authoritative for the parent total.
	batch.Queue(`
		UPDATE hour_requests
		SET total_hours = (SELECT COALESCE(SUM(hours), 0) FROM hour_request_details WHERE request_id = $1),
			updated_at = NOW()
		WHERE id = $1
	`, requestID)

	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err, constraintHourRequestDetailDay) {
			return nil, fmt.Errorf("duplicate detail date for hour request %s: %w", requestID, err)
		}
		return nil, fmt.Errorf("failed to insert details of hour request %s: %w", requestID, err)
	}

	return r.listDetails(ctx, requestID)
}

func (r *hourRequestRepositoryImpl) listDetails(ctx context.Context, requestID string) ([]hourrequest.Detail, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, request_id, date, check_in, check_out, hours, task_description
		FROM hour_request_details
		WHERE request_id = $1
		ORDER BY date
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list details of hour request %s: %w", requestID, err)
	}
	defer rows.Close()

	details := []hourrequest.Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hour request detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *hourRequestRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (hourrequest.HourRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + hourRequestColumns + `
		FROM hour_requests h
		JOIN employees e ON e.id = h.employee_id
		WHERE h.id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE OF h`
	}

	h, err := scanHourRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hourrequest.HourRequest{}, hourrequest.ErrHourRequestNotFound
		}
		return hourrequest.HourRequest{}, fmt.Errorf("failed to get hour request with id %s: %w", id, err)
	}

	if h.Details, err = r.listDetails(ctx, id); err != nil {
		return hourrequest.HourRequest{}, err
	}
	return h, nil
}

// GetByID implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByID(ctx context.Context, id string) (hourrequest.HourRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (hourrequest.HourRequest, error) {
	return r.getByID(ctx, id, true)
}

// attachDetails loads details for every request with one query.
func (r *hourRequestRepositoryImpl) attachDetails(ctx context.Context, requests []hourrequest.HourRequest) error {
	if len(requests) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(requests))
	byID := make(map[string]*hourrequest.HourRequest, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
		requests[i].Details = []hourrequest.Detail{}
		byID[requests[i].ID] = &requests[i]
	}

	rows, err := q.Query(ctx, `
		SELECT id, request_id, date, check_in, check_out, hours, task_description
		FROM hour_request_details
		WHERE request_id = ANY($1::uuid[])
		ORDER BY date
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to list hour request details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return fmt.Errorf("failed to scan hour request detail: %w", err)
		}
		if parent, ok := byID[d.RequestID]; ok {
			parent.Details = append(parent.Details, d)
		}
	}
	return rows.Err()
}

func (r *hourRequestRepositoryImpl) collect(ctx context.Context, rows pgx.Rows) ([]hourrequest.HourRequest, error) {
	requests := []hourrequest.HourRequest{}
	for rows.Next() {
		h, err := scanHourRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan hour request: %w", err)
		}
		requests = append(requests, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachDetails(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListByEmployee implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]hourrequest.HourRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+hourRequestColumns+`
		FROM hour_requests h
		JOIN employees e ON e.id = h.employee_id
		WHERE h.employee_id = $1
		ORDER BY h.year DESC, h.month DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hour requests of employee %s: %w", employeeID, err)
	}
	return r.collect(ctx, rows)
}

// ListPending implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) ListPending(ctx context.Context, filter hourrequest.PendingFilter) ([]hourrequest.HourRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM hour_requests WHERE status = 'PENDING'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending hour requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := q.Query(ctx, `SELECT `+hourRequestColumns+`
		FROM hour_requests h
		JOIN employees e ON e.id = h.employee_id
		WHERE h.status = 'PENDING'
		ORDER BY h.submitted_at ASC, h.id ASC
		LIMIT $1 OFFSET $2
	`, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending hour requests: %w", err)
	}

	requests, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateReview implements hourrequest.HourRequestRepository.
func (r *hourRequestRepositoryImpl) UpdateReview(ctx context.Context, req hourrequest.HourRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE hour_requests
		SET status = $1, rejection_reason = $2, reviewed_by = $3, reviewed_at = $4,
			calculated_salary = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'PENDING'
	`, req.Status, req.RejectionReason, req.ReviewedBy, req.ReviewedAt, req.CalculatedSalary, req.ID)
	if err != nil {
		return fmt.Errorf("failed to review hour request %s: %w", req.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return hourrequest.ErrNotPending
	}
	return nil
}
