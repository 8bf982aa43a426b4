package chimelib

import "errors"

var (
	ErrInvalidTimeFormat = errors.New("time must be in 24-hour HH:MM format")
	ErrInvalidSnooze     = errors.New("snooze duration must be between 1 and 60 minutes")
	ErrInvalidCron       = errors.New("invalid 5-field cron expression")

	ErrAlarmNotFound = errors.New("alarm you are referring to is not found")
	ErrOutOfRange    = errors.New("alarm number is out of range")

	ErrToneNotFound    = errors.New("tone file you selected is not found")
	ErrToneUnsupported = errors.New("tone file must be a .wav, .mp3, .ogg or .m4a file")
)
