package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/metrics"
	"github.com/stemsi/guesswise-backend/internal/model"
	"github.com/stemsi/guesswise-backend/internal/repository"
)

// GradeService persists grade calculator sheets and runs the grade engine on
// them.
type GradeService struct {
	sheets  SheetStore
	locker  Locker
	now     func() time.Time
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewGradeService creates a new GradeService. A nil m records nothing.
// Compute touches neither sheets nor locker, so callers that only compute may
// pass nil for both.
func NewGradeService(sheets SheetStore, locker Locker, m *metrics.Metrics, log zerolog.Logger) *GradeService {
	if m == nil {
		m = metrics.New(nil)
	}
	return &GradeService{
		sheets:  sheets,
		locker:  locker,
		now:     time.Now,
		metrics: m,
		log:     log.With().Str("component", "grade_service").Logger(),
	}
}

// Compute grades a list of subjects without storing anything.
func (s *GradeService) Compute(subjects []model.SubjectMarks) (model.GradeResult, error) {
	rows := make([]model.Subject, 0, len(subjects))
	for i, sm := range subjects {
		if sm.Marks < MinMarks || sm.Marks > MaxMarks {
			return model.GradeResult{}, ErrMarksOutOfRange
		}
		rows = append(rows, model.Subject{ID: int64(i + 1), Name: sm.Name, Marks: sm.Marks})
	}

	result := ComputeResult(rows)
	s.metrics.GradeCalculations.WithLabelValues(result.Grade).Inc()
	return result, nil
}

// CreateSheet stores a new sheet seeded with the default subjects.
func (s *GradeService) CreateSheet(ctx context.Context) (*model.GradeSheet, error) {
	sheet := NewGradeSheet(uuid.New().String())
	sheet.UpdatedAt = s.now()
	if err := s.sheets.Save(ctx, sheet); err != nil {
		return nil, fmt.Errorf("save sheet: %w", err)
	}
	return sheet, nil
}

// GetSheet returns a sheet by id.
func (s *GradeService) GetSheet(ctx context.Context, sheetID string) (*model.GradeSheet, error) {
	return s.load(ctx, sheetID)
}

// AddSubject appends a zero-mark subject to a sheet.
func (s *GradeService) AddSubject(ctx context.Context, sheetID, name string) (*model.GradeSheet, error) {
	return s.mutate(ctx, sheetID, func(sheet *model.GradeSheet) error {
		_, err := AddSubject(sheet, name)
		return err
	})
}

// RemoveSubject deletes a subject; the last subject of a sheet stays.
func (s *GradeService) RemoveSubject(ctx context.Context, sheetID string, subjectID int64) (*model.GradeSheet, error) {
	return s.mutate(ctx, sheetID, func(sheet *model.GradeSheet) error {
		return RemoveSubject(sheet, subjectID)
	})
}

// SetMarks overwrites one subject's marks.
func (s *GradeService) SetMarks(ctx context.Context, sheetID string, subjectID int64, marks int) (*model.GradeSheet, error) {
	return s.mutate(ctx, sheetID, func(sheet *model.GradeSheet) error {
		return SetMarks(sheet, subjectID, marks)
	})
}

// Calculate computes and stores the sheet's result.
func (s *GradeService) Calculate(ctx context.Context, sheetID string) (*model.GradeSheet, error) {
	sheet, err := s.mutate(ctx, sheetID, func(sheet *model.GradeSheet) error {
		Calculate(sheet)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GradeCalculations.WithLabelValues(sheet.Result.Grade).Inc()
	s.log.Debug().
		Str("sheet_id", sheet.ID).
		Float64("average", sheet.Result.AveragePercentage).
		Str("grade", sheet.Result.Grade).
		Msg("Sheet calculated")
	return sheet, nil
}

// Reset zeroes all marks and clears the result.
func (s *GradeService) Reset(ctx context.Context, sheetID string) (*model.GradeSheet, error) {
	return s.mutate(ctx, sheetID, func(sheet *model.GradeSheet) error {
		ResetSheet(sheet)
		return nil
	})
}

// mutate loads a sheet under its lock, applies fn and saves the result. A
// failing fn leaves the stored sheet untouched.
func (s *GradeService) mutate(ctx context.Context, sheetID string, fn func(*model.GradeSheet) error) (*model.GradeSheet, error) {
	unlock, err := s.locker.Lock(ctx, config.CacheKey.GradeSheetLockKey(sheetID))
	if err != nil {
		if errors.Is(err, repository.ErrLockTimeout) {
			return nil, ErrLockBusy
		}
		return nil, fmt.Errorf("lock sheet: %w", err)
	}
	defer unlock()

	sheet, err := s.load(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	if err := fn(sheet); err != nil {
		return nil, err
	}

	sheet.UpdatedAt = s.now()
	if err := s.sheets.Save(ctx, sheet); err != nil {
		return nil, fmt.Errorf("save sheet: %w", err)
	}
	return sheet, nil
}

func (s *GradeService) load(ctx context.Context, sheetID string) (*model.GradeSheet, error) {
	sheet, err := s.sheets.Get(ctx, sheetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("get sheet: %w", err)
	}
	return sheet, nil
}
