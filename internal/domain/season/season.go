// internal/domain/season/season.go
package season

// Season of the year, used for headers in bot replies.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// SeasonOf maps a month (1..12) to its season. December through February is winter.
func SeasonOf(month int) Season {
	switch {
	case month == 12 || month == 1 || month == 2:
		return Winter
	case month >= 3 && month <= 5:
		return Spring
	case month >= 6 && month <= 8:
		return Summer
	default:
		return Autumn
	}
}

func (s Season) Emoji() string {
	switch s {
	case Spring:
		return "🌸"
	case Summer:
		return "🌻"
	case Autumn:
		return "🍁"
	default:
		return "❄️"
	}
}
