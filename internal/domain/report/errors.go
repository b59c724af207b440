package report

import "errors"

var (
	ErrInvalidMonth         = errors.New("month must be between 1 and 12")
	ErrInvalidYear          = errors.New("year must be between 2000 and 2100")
	ErrInvalidFormat        = errors.New("format must be one of: csv, pdf")
	ErrArchiveNotFound      = errors.New("report archive not found")
	ErrArchiveAlreadyQueued = errors.New("an archive for this period is already queued")
	ErrPeriodNotClosed      = errors.New("only months that have already ended can be archived")
)
