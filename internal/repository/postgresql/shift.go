package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, st shift.ShiftTime) (shift.ShiftTime, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO shift_times (
			id, company_id, branch_id, name, start_time, end_time,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		st.CompanyID, st.BranchID, st.Name, st.StartTime, st.EndTime,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return shift.ShiftTime{}, shift.ErrShiftNameExists
		}
		return shift.ShiftTime{}, err
	}

	return st, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (shift.ShiftTime, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, branch_id, name, start_time, end_time,
			   created_at, updated_at
		FROM shift_times
		WHERE id = $1 AND company_id = $2
	`

	var st shift.ShiftTime
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&st.ID, &st.CompanyID, &st.BranchID, &st.Name, &st.StartTime, &st.EndTime,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.ShiftTime{}, shift.ErrShiftNotFound
		}
		return shift.ShiftTime{}, err
	}

	return st, nil
}

// GetByCompanyID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) ([]shift.ShiftTime, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, company_id, branch_id, name, start_time, end_time,
			   created_at, updated_at
		FROM shift_times
		WHERE company_id = $1
		ORDER BY start_time, name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftRows(rows)
}

// GetShiftsForDate implements shift.ShiftRepository. Returns the catalog of
// shifts scheduled at a branch for one date, the overlap detector's input.
func (r *shiftRepositoryImpl) GetShiftsForDate(ctx context.Context, branchID string, date time.Time, companyID string) ([]shift.ShiftTime, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT st.id, st.company_id, st.branch_id, st.name, st.start_time, st.end_time,
			   st.created_at, st.updated_at
		FROM shift_times st
		JOIN shift_assignments sa ON sa.shift_time_id = st.id
		WHERE st.branch_id = $1 AND sa.date = $2 AND st.company_id = $3
		ORDER BY st.start_time, st.name
	`

	rows, err := q.Query(ctx, query, branchID, date, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShiftRows(rows)
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM shift_times
		WHERE id = $1 AND company_id = $2
	`

	commandTag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanShiftRows(rows pgx.Rows) ([]shift.ShiftTime, error) {
	var shifts []shift.ShiftTime
	for rows.Next() {
		var st shift.ShiftTime
		if err := rows.Scan(
			&st.ID, &st.CompanyID, &st.BranchID, &st.Name, &st.StartTime, &st.EndTime,
			&st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shifts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
