// internal/infra/telegram/format.go
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"seasonal_food_bot/internal/app"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/notification"
	"seasonal_food_bot/internal/domain/recipe"
	"seasonal_food_bot/internal/domain/season"
)

const dataUnavailableText = "⚠️ 데이터를 불러오지 못했어요. 잠시 후 다시 시도해 주세요."

// FormatPeriod renders one period's ingredients grouped under category headers.
func FormatPeriod(view app.PeriodView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s 제철 식재료\n", season.SeasonOf(view.Period.Month).Emoji(), view.Period.Label())

	if view.Unavailable {
		sb.WriteString("\n" + dataUnavailableText)
		return sb.String()
	}
	if len(view.Items) == 0 {
		sb.WriteString("\n이 시기의 제철 식재료가 없어요.")
		return sb.String()
	}

	var current ingredient.Category
	for i, it := range view.Items {
		if i == 0 || it.Category != current {
			current = it.Category
			fmt.Fprintf(&sb, "\n[%s]\n", current)
		}
		if it.Description != "" {
			fmt.Fprintf(&sb, "• %s - %s\n", it.Name, it.Description)
		} else {
			fmt.Fprintf(&sb, "• %s\n", it.Name)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatSearch lists the periods that have hits for a search, one line per period.
func FormatSearch(query string, views []app.PeriodView) string {
	if len(views) == 0 {
		return fmt.Sprintf("'%s'에 해당하는 제철 식재료가 없어요.", query)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 '%s' 검색 결과\n", query)
	for _, v := range views {
		names := make([]string, len(v.Items))
		for i, it := range v.Items {
			names[i] = it.Name
		}
		fmt.Fprintf(&sb, "\n%s: %s", v.Period.Label(), strings.Join(names, ", "))
	}
	return sb.String()
}

// FormatDDay renders the distance to a date as "오늘" or "D-n".
func FormatDDay(days int) string {
	if days == 0 {
		return "오늘"
	}
	return "D-" + strconv.Itoa(days)
}

// FormatHolidayBanner is the short upcoming-holiday notice.
func FormatHolidayBanner(detail app.HolidayDetail, daysUntil int) string {
	h := detail.Holiday
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 %d월 %d일은 %s입니다. (%s)", int(h.SolarDate.Month()), h.SolarDate.Day(), h.Name, FormatDDay(daysUntil))
	if h.MainFood != "" {
		fmt.Fprintf(&sb, "\n%s에는 %s 먹어요", h.Name, h.MainFood)
	}
	return sb.String()
}

// FormatHolidayDetail renders the banner followed by the holiday's story, foods and customs.
func FormatHolidayDetail(detail app.HolidayDetail, daysUntil int) string {
	h := detail.Holiday
	var sb strings.Builder
	sb.WriteString(FormatHolidayBanner(detail, daysUntil))
	if h.Summary != "" {
		fmt.Fprintf(&sb, "\n\n%s", h.Summary)
	}
	if h.Story != nil && h.Story.Content != "" {
		fmt.Fprintf(&sb, "\n\n📖 %s\n%s", h.Story.Title, h.Story.Content)
	}
	if len(detail.Foods) > 0 {
		sb.WriteString("\n\n[대표 음식]")
		for i, f := range detail.Foods {
			line := "\n• " + f.Dish
			if d := h.Details.Foods[i].Description; d != "" {
				line += " - " + d
			}
			if f.RecipeID != "" {
				line += " 🍳"
			}
			sb.WriteString(line)
		}
	}
	if len(h.Details.Customs) > 0 {
		sb.WriteString("\n\n[풍습]")
		for _, c := range h.Details.Customs {
			if c.Description != "" {
				fmt.Fprintf(&sb, "\n• %s - %s", c.Name, c.Description)
			} else {
				fmt.Fprintf(&sb, "\n• %s", c.Name)
			}
		}
	}
	return sb.String()
}

// FormatIngredient renders the ingredient detail card.
func FormatIngredient(detail app.IngredientDetail) string {
	it := detail.Ingredient
	var sb strings.Builder
	fmt.Fprintf(&sb, "🥬 %s (%s)", it.Name, it.Category)
	if it.Description != "" {
		fmt.Fprintf(&sb, "\n%s", it.Description)
	}

	labels := make([]string, len(it.Periods))
	for i, p := range it.Periods {
		labels[i] = p.Label()
	}
	if len(labels) > 0 {
		fmt.Fprintf(&sb, "\n\n📅 제철: %s", strings.Join(labels, ", "))
	}

	if it.CaloriesPer100g > 0 {
		fmt.Fprintf(&sb, "\n🔥 열량: 100g당 %skcal", strconv.FormatFloat(it.CaloriesPer100g, 'f', -1, 64))
		if it.CaloriesPerServing != "" {
			fmt.Fprintf(&sb, " (1인분 %s)", it.CaloriesPerServing)
		}
	}
	if it.Preparation != "" {
		fmt.Fprintf(&sb, "\n\n[손질법]\n%s", it.Preparation)
	}
	if it.HasStorageNotes() {
		sb.WriteString("\n\n[보관법]")
		for _, s := range []struct{ label, text string }{
			{"실온", it.StorageRoomTemp},
			{"냉장", it.StorageRefrigerator},
			{"냉동", it.StorageFreezer},
		} {
			if s.text != "" {
				fmt.Fprintf(&sb, "\n• %s: %s", s.label, s.text)
			}
		}
	}
	if len(detail.Dishes) > 0 {
		sb.WriteString("\n\n[추천 요리]")
		for _, d := range detail.Dishes {
			if d.RecipeID != "" {
				fmt.Fprintf(&sb, "\n• %s 🍳", d.Dish)
			} else {
				fmt.Fprintf(&sb, "\n• %s", d.Dish)
			}
		}
	}
	return sb.String()
}

// FormatRecipe renders a full recipe.
func FormatRecipe(r recipe.Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍳 %s", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&sb, "\n%s", r.Description)
	}

	var meta []string
	if r.Servings > 0 {
		meta = append(meta, fmt.Sprintf("%d인분", r.Servings))
	}
	if r.CookTime != "" {
		meta = append(meta, r.CookTime)
	}
	if r.Difficulty != "" {
		meta = append(meta, "난이도 "+r.Difficulty)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, "\n%s", strings.Join(meta, " · "))
	}

	writeAmounts := func(title string, amounts []recipe.Amount) {
		if len(amounts) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n\n[%s]", title)
		for _, a := range amounts {
			fmt.Fprintf(&sb, "\n• %s %s", a.Name, a.Amount)
		}
	}
	writeAmounts("재료", r.Ingredients)
	writeAmounts("양념", r.Seasoning)

	if len(r.Steps) > 0 {
		sb.WriteString("\n\n[만드는 법]")
		for i, s := range r.Steps {
			n := s.Step
			if n == 0 {
				n = i + 1
			}
			fmt.Fprintf(&sb, "\n%d. %s", n, s.Description)
		}
	}
	if len(r.Tips) > 0 {
		sb.WriteString("\n\n[팁]")
		for _, tip := range r.Tips {
			fmt.Fprintf(&sb, "\n• %s", tip)
		}
	}
	return sb.String()
}

func onOff(enabled bool) string {
	if enabled {
		return "켜짐"
	}
	return "꺼짐"
}

func permissionLabel(state notification.PermissionState) string {
	switch state {
	case notification.PermissionGranted:
		return "허용됨"
	case notification.PermissionDenied:
		return "허용 안 함"
	default:
		return "아직 선택하지 않음"
	}
}

// FormatSettings renders the current notification settings.
func FormatSettings(s notification.Setting, state notification.PermissionState) string {
	var sb strings.Builder
	sb.WriteString("⚙️ 알림 설정\n")
	fmt.Fprintf(&sb, "\n🥦 제철 식재료 알림: %s (매월 %d일 %s)", onOff(s.Ingredient.Enabled), s.Ingredient.Day, s.Ingredient.Time)
	fmt.Fprintf(&sb, "\n🌕 명절 알림: %s (%s %s)", onOff(s.Holiday.Enabled), daysBeforeLabel(s.Holiday.DaysBefore), s.Holiday.Time)
	fmt.Fprintf(&sb, "\n🔔 알림 권한: %s", permissionLabel(state))
	sb.WriteString("\n\n/ingredient_alarm on|off [일]\n/holiday_alarm on|off [D-n]\n/alarm_time HH:MM")
	return sb.String()
}

func daysBeforeLabel(days int) string {
	if days == 0 {
		return "당일"
	}
	return fmt.Sprintf("%d일 전", days)
}

// FormatNotification is the chat message for a delivered notification.
func FormatNotification(p notification.Pending) string {
	return fmt.Sprintf("%s\n\n%s", p.Title, p.Body)
}

// ParsePeriodArgs reads "/period" arguments: "3 초순", "3-초순" or a bare month, which
// means its first decile.
func ParsePeriodArgs(args []string) (season.Period, error) {
	switch len(args) {
	case 1:
		if p, err := season.ParseKey(args[0]); err == nil {
			return p, nil
		}
		return season.ParseKey(strings.TrimSuffix(args[0], "월") + "-" + season.Early.String())
	case 2:
		return season.ParseKey(strings.TrimSuffix(args[0], "월") + "-" + args[1])
	default:
		return season.Period{}, fmt.Errorf("expected <월> <초순|중순|하순>, got %d arguments", len(args))
	}
}

// ParseToggle reads the on/off argument of the alarm commands.
func ParseToggle(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "on", "켜기", "켬":
		return true, nil
	case "off", "끄기", "끔":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", arg)
	}
}

// ParseDaysBefore accepts "3", "D-3" or "d-3".
func ParseDaysBefore(arg string) (int, error) {
	s := strings.TrimSpace(arg)
	if len(s) > 2 && (s[:2] == "D-" || s[:2] == "d-") {
		s = s[2:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid day count %q", arg)
	}
	return n, nil
}

// ParseDay accepts a day of month written as "15" or "15일".
func ParseDay(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(arg), "일"))
	if err != nil {
		return 0, fmt.Errorf("invalid day of month %q", arg)
	}
	return n, nil
}
