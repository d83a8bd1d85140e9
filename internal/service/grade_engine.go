package service

import (
	"strings"

	"github.com/stemsi/guesswise-backend/internal/model"
)

const (
	MinMarks = 0
	MaxMarks = 100
)

// DefaultSubjects seeds every new sheet.
var DefaultSubjects = []string{"Mathematics", "Science", "English"}

// gradeBand is a letter grade with its inclusive lower bound.
type gradeBand struct {
	min   float64
	grade string
	color string
}

// gradeBands is ordered highest first; the first band whose min the average
// reaches wins.
var gradeBands = []gradeBand{
	{90, "A+", "bg-green-500"},
	{80, "A", "bg-green-400"},
	{70, "B+", "bg-blue-500"},
	{60, "B", "bg-blue-400"},
	{50, "C", "bg-yellow-500"},
}

const (
	failingGrade = "F"
	failingColor = "bg-red-500"
)

// NewGradeSheet returns a sheet holding the default subjects at zero marks.
func NewGradeSheet(id string) *model.GradeSheet {
	sheet := &model.GradeSheet{ID: id, Subjects: make([]model.Subject, 0, len(DefaultSubjects))}
	for _, name := range DefaultSubjects {
		sheet.NextSubjectID++
		sheet.Subjects = append(sheet.Subjects, model.Subject{ID: sheet.NextSubjectID, Name: name})
	}
	return sheet
}

// AddSubject appends a subject with zero marks.
func AddSubject(sheet *model.GradeSheet, name string) (*model.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptySubjectName
	}
	sheet.NextSubjectID++
	sheet.Subjects = append(sheet.Subjects, model.Subject{ID: sheet.NextSubjectID, Name: name})
	markStale(sheet)
	return &sheet.Subjects[len(sheet.Subjects)-1], nil
}

// RemoveSubject deletes a subject unless it is the last one left.
func RemoveSubject(sheet *model.GradeSheet, id int64) error {
	if len(sheet.Subjects) <= 1 {
		return ErrLastSubject
	}
	idx := subjectIndex(sheet, id)
	if idx < 0 {
		return ErrSubjectNotFound
	}
	sheet.Subjects = append(sheet.Subjects[:idx], sheet.Subjects[idx+1:]...)
	markStale(sheet)
	return nil
}

// SetMarks overwrites one subject's marks.
func SetMarks(sheet *model.GradeSheet, id int64, marks int) error {
	if marks < MinMarks || marks > MaxMarks {
		return ErrMarksOutOfRange
	}
	idx := subjectIndex(sheet, id)
	if idx < 0 {
		return ErrSubjectNotFound
	}
	sheet.Subjects[idx].Marks = marks
	markStale(sheet)
	return nil
}

// Calculate stores a fresh result on the sheet.
func Calculate(sheet *model.GradeSheet) model.GradeResult {
	result := ComputeResult(sheet.Subjects)
	sheet.Result = &result
	sheet.ResultStale = false
	return result
}

// ResetSheet zeroes every subject's marks and drops the computed result.
func ResetSheet(sheet *model.GradeSheet) {
	for i := range sheet.Subjects {
		sheet.Subjects[i].Marks = 0
	}
	sheet.Result = nil
	sheet.ResultStale = false
}

// ComputeResult totals marks, averages them to two decimals and maps the
// average to a letter grade.
func ComputeResult(subjects []model.Subject) model.GradeResult {
	if len(subjects) == 0 {
		return model.GradeResult{Grade: failingGrade, GradeColor: failingColor}
	}

	total := 0
	for _, s := range subjects {
		total += s.Marks
	}
	average := RatioTo2(total, len(subjects))
	grade, color := LetterGrade(average)

	return model.GradeResult{
		TotalMarks:        total,
		AveragePercentage: average,
		Grade:             grade,
		GradeColor:        color,
	}
}

// LetterGrade maps an average percentage to its grade and display color.
func LetterGrade(average float64) (string, string) {
	for _, b := range gradeBands {
		if average >= b.min {
			return b.grade, b.color
		}
	}
	return failingGrade, failingColor
}

// RatioTo2 returns num/den rounded half away from zero at the second decimal.
// The rounding happens on integer hundredths, so averages like 0.575 that
// have no exact float64 form still round up. num must be non-negative and
// den positive.
func RatioTo2(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	cents := (num*200/den + 1) / 2
	return float64(cents) / 100
}

func subjectIndex(sheet *model.GradeSheet, id int64) int {
	for i, s := range sheet.Subjects {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func markStale(sheet *model.GradeSheet) {
	if sheet.Result != nil {
		sheet.ResultStale = true
	}
}
