package poll

import "errors"

var (
	// ErrChoiceNotFound is returned when a vote names a language that is not a choice.
	ErrChoiceNotFound = errors.New("choice not found")

	// ErrChoiceExists is returned when adding a language that is already a choice.
	ErrChoiceExists = errors.New("choice already exists")

	// ErrEmptyLanguage is returned when a language name is blank.
	ErrEmptyLanguage = errors.New("language is empty")
)
