package shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/workpay-hq/payroll-engine-go/internal/domain/shift"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/timeutil"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/validator"
)

type ShiftServiceImpl struct {
	db        *database.DB
	shiftRepo shift.ShiftRepository
}

func NewShiftService(db *database.DB, shiftRepo shift.ShiftRepository) shift.ShiftService {
	return &ShiftServiceImpl{
		db:        db,
		shiftRepo: shiftRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// CreateShift implements shift.ShiftService. Time format is validated here at
// the boundary so the overlap detector only ever sees parseable values.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if validator.IsEmpty(req.Name) {
		return shift.ShiftResponse{}, shift.ErrInvalidRequestData
	}
	if _, err := timeutil.ParseTimeToMinutes(req.StartTime); err != nil {
		return shift.ShiftResponse{}, shift.ErrInvalidTimeFormat
	}
	if _, err := timeutil.ParseTimeToMinutes(req.EndTime); err != nil {
		return shift.ShiftResponse{}, shift.ErrInvalidTimeFormat
	}

	created, err := s.shiftRepo.Create(ctx, shift.ShiftTime{
		CompanyID: companyID,
		BranchID:  req.BranchID,
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return mapToShiftResponse(created), nil
}

// ListShifts implements shift.ShiftService. With a branch and date it returns
// that day's catalog (the overlap detector's input); otherwise the whole
// company catalog.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, branchID, date string) ([]shift.ShiftResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var shifts []shift.ShiftTime
	if branchID != "" && date != "" {
		day, ok := validator.IsValidDate(date)
		if !ok {
			return nil, shift.ErrInvalidDateFormat
		}
		shifts, err = s.shiftRepo.GetShiftsForDate(ctx, branchID, day, companyID)
	} else {
		shifts, err = s.shiftRepo.GetByCompanyID(ctx, companyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, mapToShiftResponse(sh))
	}
	return responses, nil
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, id string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.shiftRepo.Delete(ctx, id, companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// ValidateShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ValidateShifts(ctx context.Context, req shift.ValidateShiftsRequest) (shift.ValidationResult, error) {
	if _, err := companyIDFromContext(ctx); err != nil {
		return shift.ValidationResult{}, err
	}

	// Boundary validation: reject malformed entries outright instead of
	// letting them silently pass the detector as "no overlap".
	for _, e := range req.Entries {
		if _, ok := validator.IsValidDate(e.Date); !ok {
			return shift.ValidationResult{}, shift.ErrInvalidDateFormat
		}
		if _, err := timeutil.ParseTimeToMinutes(e.Shift.StartTime); err != nil {
			return shift.ValidationResult{}, shift.ErrInvalidTimeFormat
		}
		if _, err := timeutil.ParseTimeToMinutes(e.Shift.EndTime); err != nil {
			return shift.ValidationResult{}, shift.ErrInvalidTimeFormat
		}
	}

	return ValidateShiftsByDate(req.Entries), nil
}

func mapToShiftResponse(sh shift.ShiftTime) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:        sh.ID,
		BranchID:  sh.BranchID,
		Name:      sh.Name,
		StartTime: sh.StartTime,
		EndTime:   sh.EndTime,
	}
}
