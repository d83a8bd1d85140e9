package model

import "time"

// Subject is one row on a grade sheet.
type Subject struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Marks int    `json:"marks"`
}

// GradeResult is derived from a sheet's subjects and never stored on its own.
type GradeResult struct {
	TotalMarks        int     `json:"total_marks"`
	AveragePercentage float64 `json:"average_percentage"`
	Grade             string  `json:"grade"`
	GradeColor        string  `json:"grade_color"`
}

// GradeSheet is the grade calculator's working state.
type GradeSheet struct {
	ID            string       `json:"id"`
	Subjects      []Subject    `json:"subjects"`
	NextSubjectID int64        `json:"next_subject_id"`
	Result        *GradeResult `json:"result,omitempty"`
	// ResultStale is set when subjects changed after the last calculation.
	ResultStale bool      `json:"result_stale"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubjectMarks is a subject as submitted to the stateless compute endpoint.
type SubjectMarks struct {
	Name  string `json:"name" binding:"max=100"`
	Marks int    `json:"marks" binding:"min=0,max=100"`
}

// ComputeGradeRequest is the payload for a one-shot grade computation.
type ComputeGradeRequest struct {
	Subjects []SubjectMarks `json:"subjects" binding:"required,min=1,max=50,dive"`
}

// AddSubjectRequest is the payload for adding a subject to a sheet.
type AddSubjectRequest struct {
	Name string `json:"name" binding:"max=100"`
}

// SetMarksRequest is the payload for overwriting a subject's marks. Range is
// checked by the grade engine so out-of-range values keep the sheet unchanged.
type SetMarksRequest struct {
	Marks *int `json:"marks" binding:"required"`
}
