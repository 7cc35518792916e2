package service

import "errors"

var (
	// ErrArtifactNotFound is returned when the artifact directory or file is
	// missing, or no file matches the artifact prefix.
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrArtifactCorrupt is returned when the artifact cannot be deserialized
	// into a classifier.
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrMalformedArtifactName is returned when a matching artifact name does
	// not end in a sequence length between 1 and MaxExpectedLength.
	ErrMalformedArtifactName = errors.New("malformed model artifact name")

	// ErrInvalidSequence is returned in strict mode for sequences containing
	// empty tokens.
	ErrInvalidSequence = errors.New("invalid syscall sequence")

	// ErrInvalidPrediction is returned when the classifier output is not a
	// probability vector with at least two classes.
	ErrInvalidPrediction = errors.New("invalid classifier prediction")

	// ErrAssessmentNotFound is returned when no stored assessment matches.
	ErrAssessmentNotFound = errors.New("assessment not found")
)
