package settings

import "errors"

var (
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrInvalidSettingType = errors.New("invalid setting value for declared type")
	ErrInvalidPolicy      = errors.New("invalid work policy")
	ErrNoSnapshot         = errors.New("settings have never been loaded")
)
