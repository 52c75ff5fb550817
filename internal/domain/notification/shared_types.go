// internal/domain/notification/shared_types.go
package notification

import "errors"

// Kind tells the two notification families apart.
type Kind string

const (
	KindIngredient Kind = "ingredient"
	KindHoliday    Kind = "holiday"
)

// Id ranges. Ingredient ids are IngredientIDBase+i for the month offset i (0..11),
// holiday ids are HolidayIDBase+idx for the holiday's position in the reference list.
const (
	IngredientIDBase = 10000
	HolidayIDBase    = 20000
)

// PermissionState mirrors the platform's notification permission.
type PermissionState string

const (
	PermissionPrompt  PermissionState = "prompt" // not asked yet
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
)

// DefaultChannelID is the delivery channel every scheduled notification uses.
const DefaultChannelID = "default"

// SettingsStorageKey is the well-known key the settings record is stored under.
const SettingsStorageKey = "app_settings"

// ErrPermissionDenied is returned when the platform does not grant notification permission.
var ErrPermissionDenied = errors.New("notification permission denied")

// ErrSettingsNotFound is returned by a SettingsRepository when nothing is stored yet.
var ErrSettingsNotFound = errors.New("settings not found")
