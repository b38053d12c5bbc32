package graph

import "errors"

// Domain error taxonomy. All are caller-input errors, raised at the
// point of detection with no partial mutation left behind.
var (
	ErrInvalidGender    = errors.New("gender must be 'male' or 'female'")
	ErrPersonNotFound   = errors.New("person not found")
	ErrNotMarried       = errors.New("person is not married")
	ErrAlreadyMarried   = errors.New("person is already married")
	ErrNoEligibleSpouse = errors.New("neither person is a family member")
	ErrNotRelated       = errors.New("persons are not related")
)
