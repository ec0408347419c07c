package services

import "errors"

var (
	// ErrAchievementAlreadyAwarded is returned when the (user, type, award key)
	// uniqueness constraint rejects a write.
	ErrAchievementAlreadyAwarded = errors.New("achievement already awarded")
	ErrUnknownAchievementType    = errors.New("unknown achievement type")
	ErrDetailsMismatch           = errors.New("achievement details do not match type")
	ErrInvalidWeekStart          = errors.New("invalid week start")
)
