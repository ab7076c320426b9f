package domain

import "errors"

var (
	// ErrInvalidFlow is returned when a campaign definition cannot be loaded into a usable flow.
	ErrInvalidFlow = errors.New("invalid campaign flow")

	// ErrInvalidCode is returned when a "start <code>" command names an unknown campaign code.
	ErrInvalidCode = errors.New("invalid campaign code")

	// ErrQuestionNotFound is returned when the session points at no question of the flow
	// and no answered question can be used to recover.
	ErrQuestionNotFound = errors.New("current question not found")

	// ErrValidationRejected is returned alongside the retry reply when an answer is rejected.
	ErrValidationRejected = errors.New("answer rejected")

	// ErrStoreUnavailable is returned when the session or campaign store fails or times out.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSessionNotFound is returned when a session key cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCampaignNotFound is returned when a campaign id, code or channel has no record.
	ErrCampaignNotFound = errors.New("campaign not found")
)
