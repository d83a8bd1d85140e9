package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidGuess   ErrCode = "INVALID_GUESS"
	ErrInvalidMarks   ErrCode = "INVALID_MARKS"
	ErrEmptySubject   ErrCode = "EMPTY_SUBJECT_NAME"
	ErrInvalidAction  ErrCode = "INVALID_ACTION"
	ErrPlayerRequired ErrCode = "PLAYER_ID_REQUIRED"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrRoundNotFound   ErrCode = "ROUND_NOT_FOUND"
	ErrSheetNotFound   ErrCode = "SHEET_NOT_FOUND"
	ErrSubjectNotFound ErrCode = "SUBJECT_NOT_FOUND"

	// ─── State conflicts ───────────────────────────────────────────────
	ErrRoundFinished ErrCode = "ROUND_FINISHED"
	ErrRoundNotOwned ErrCode = "ROUND_NOT_OWNED"
	ErrLastSubject   ErrCode = "LAST_SUBJECT"
	ErrBusy          ErrCode = "RESOURCE_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidGuess:
		return "Please enter a valid number between 1 and 100"
	case ErrInvalidMarks:
		return "Marks must be between 0 and 100."
	case ErrEmptySubject:
		return "Subject name must not be empty."
	case ErrInvalidAction:
		return "Invalid action"
	case ErrPlayerRequired:
		return "A valid player ID is required."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrRoundNotFound:
		return "Game not found"
	case ErrSheetNotFound:
		return "Grade sheet not found."
	case ErrSubjectNotFound:
		return "Subject not found."

	// ─── State conflicts ───────────────────────────────────────────────
	case ErrRoundFinished:
		return "Game is already finished"
	case ErrRoundNotOwned:
		return "This game belongs to another player"
	case ErrLastSubject:
		return "At least one subject must remain."
	case ErrBusy:
		return "Another request for this resource is in progress. Please retry."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Server error"
	default:
		return "An unexpected error occurred."
	}
}
