package document

import "errors"

// Ingestion errors. A fragment or series that fails validation is rejected
// before it reaches the model; nothing downstream re-checks these.
var (
	// ErrLengthMismatch indicates that a fragment's data and times differ in length.
	ErrLengthMismatch = errors.New("fragment data and times lengths differ")

	// ErrNotAscending indicates that fragment timestamps are not strictly ascending.
	ErrNotAscending = errors.New("fragment times are not strictly ascending")

	// ErrInvalidBounds indicates start > end, or a sample outside [start, end].
	ErrInvalidBounds = errors.New("fragment bounds are invalid")

	// ErrOverlappingFragments indicates that two fragments of one series overlap in time.
	ErrOverlappingFragments = errors.New("fragments of one timeseries overlap")

	// ErrNonFinite indicates a NaN or infinite number, or one too large to
	// draw as a float32 coordinate.
	ErrNonFinite = errors.New("value is not finite or exceeds drawable range")

	// ErrMissingBaseline indicates a bars or area series without a baseline.
	ErrMissingBaseline = errors.New("bars and area styles require a baseline")

	// ErrUnknownStyle indicates a style tag outside the supported set.
	ErrUnknownStyle = errors.New("unknown timeseries style")

	// ErrInvalidColor indicates a color that is not a css hex code.
	ErrInvalidColor = errors.New("invalid color")
)

// Lookup errors
var (
	// ErrNotFound indicates that an id has no backing entity in the model.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates that an id is already registered.
	ErrDuplicateID = errors.New("duplicate id")
)
