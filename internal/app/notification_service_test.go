package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"seasonal_food_bot/internal/domain/holiday"
	"seasonal_food_bot/internal/domain/ingredient"
	"seasonal_food_bot/internal/domain/notification"
	"seasonal_food_bot/internal/domain/season"
)

var kst = time.FixedZone("KST", 9*60*60)

func inMonths(name string, months ...int) ingredient.Ingredient {
	it := ingredient.Ingredient{Name: name, Category: ingredient.CategoryVegetable}
	for _, m := range months {
		it.Periods = append(it.Periods, season.Period{Month: m, Decile: season.Early})
	}
	return it
}

func ingredientSetting(day int) notification.IngredientSetting {
	return notification.IngredientSetting{Enabled: true, Day: day, Time: notification.TimeOfDay{Hour: 9}}
}

func TestBuildIngredientNotifications_NewlyInSeasonOnly(t *testing.T) {
	items := []ingredient.Ingredient{inMonths("냉이", 3, 4)}
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, kst)

	got := BuildIngredientNotifications(ingredientSetting(1), items, now)
	if len(got) != 1 {
		t.Fatalf("expected exactly one notification, got %+v", got)
	}
	n := got[0]
	if n.Payload.Month != 3 {
		t.Fatalf("expected March, got month %d", n.Payload.Month)
	}
	if n.ID != notification.IngredientIDBase+1 {
		t.Fatalf("id = %d, want %d", n.ID, notification.IngredientIDBase+1)
	}
	if !n.FireAt.Equal(time.Date(2026, time.March, 1, 9, 0, 0, 0, kst)) {
		t.Fatalf("fire at %v", n.FireAt)
	}
	if n.Title != "3월의 제철 식재료 🥦" || n.Body != "3월에는 냉이이(가) 제철이에요." {
		t.Fatalf("unexpected text %q / %q", n.Title, n.Body)
	}
}

func TestBuildIngredientNotifications_ClampsToLastDay(t *testing.T) {
	items := []ingredient.Ingredient{inMonths("A", 2), inMonths("B", 4)}
	now := time.Date(2026, time.January, 31, 10, 0, 0, 0, kst)

	got := BuildIngredientNotifications(ingredientSetting(31), items, now)
	want := map[int]time.Time{
		2: time.Date(2026, time.February, 28, 9, 0, 0, 0, kst),
		4: time.Date(2026, time.April, 30, 9, 0, 0, 0, kst),
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for _, n := range got {
		if !n.FireAt.Equal(want[n.Payload.Month]) {
			t.Errorf("month %d fires at %v, want %v", n.Payload.Month, n.FireAt, want[n.Payload.Month])
		}
	}
}

func TestBuildIngredientNotifications_SkipsPastCandidate(t *testing.T) {
	items := []ingredient.Ingredient{inMonths("A", 3)}
	now := time.Date(2026, time.March, 1, 9, 0, 1, 0, kst)
	if got := BuildIngredientNotifications(ingredientSetting(1), items, now); len(got) != 0 {
		t.Fatalf("this month's reminder is already past, got %+v", got)
	}

	exact := time.Date(2026, time.March, 1, 9, 0, 0, 0, kst)
	got := BuildIngredientNotifications(ingredientSetting(1), items, exact)
	if len(got) != 1 || got[0].ID != notification.IngredientIDBase {
		t.Fatalf("a candidate equal to now is kept, got %+v", got)
	}
}

func TestBuildIngredientNotifications_BodyCountSuffix(t *testing.T) {
	items := []ingredient.Ingredient{
		inMonths("하나", 5), inMonths("둘", 5), inMonths("셋", 5), inMonths("넷", 5),
	}
	now := time.Date(2026, time.April, 20, 0, 0, 0, 0, kst)
	got := BuildIngredientNotifications(ingredientSetting(1), items, now)
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Body != "5월에는 하나, 둘, 셋 등 4가지가 제철이에요." {
		t.Fatalf("body = %q", got[0].Body)
	}
}

func TestBuildIngredientNotifications_Disabled(t *testing.T) {
	s := ingredientSetting(1)
	s.Enabled = false
	if got := BuildIngredientNotifications(s, []ingredient.Ingredient{inMonths("A", 3)}, time.Now()); got != nil {
		t.Fatalf("expected nothing, got %+v", got)
	}
}

func resolvedOn(name string, d time.Time, foods ...string) holiday.Resolved {
	h := holiday.Holiday{Name: name}
	for _, f := range foods {
		h.Details.Foods = append(h.Details.Foods, holiday.Item{Name: f})
	}
	return holiday.Resolved{Holiday: h, SolarDate: d}
}

func TestBuildHolidayNotifications(t *testing.T) {
	setting := notification.HolidaySetting{Enabled: true, DaysBefore: 3, Time: notification.TimeOfDay{Hour: 9}}
	list := []holiday.Resolved{
		resolvedOn("동지", time.Date(2026, time.December, 22, 0, 0, 0, 0, kst), "팥죽", "동치미", "시루떡"),
		resolvedOn("곧지남", time.Date(2026, time.October, 21, 0, 0, 0, 0, kst)),
		resolvedOn("설날", time.Date(2027, time.February, 7, 0, 0, 0, 0, kst)),
	}

	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, kst)
	got := BuildHolidayNotifications(setting, list, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %+v", got)
	}

	first := got[0]
	if first.ID != notification.HolidayIDBase || first.Title != "곧 동지입니다 🌕" || first.Body != "동지에는 팥죽, 동치미을(를) 먹어요." {
		t.Fatalf("unexpected first notification %+v", first)
	}
	if !first.FireAt.Equal(time.Date(2026, time.December, 19, 9, 0, 0, 0, kst)) {
		t.Fatalf("fire at %v", first.FireAt)
	}

	second := got[1]
	if second.ID != notification.HolidayIDBase+2 {
		t.Fatalf("ids follow list position, got %d", second.ID)
	}
	if second.Body != "설날에는 맛있는 음식을(를) 먹어요." {
		t.Fatalf("fallback body = %q", second.Body)
	}
}

func TestBuildNotifications_Idempotent(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, kst)
	plan := SchedulePlan{
		Setting: notification.Setting{
			Ingredient: ingredientSetting(15),
			Holiday:    notification.HolidaySetting{Enabled: true, DaysBefore: 1, Time: notification.DefaultTimeOfDay},
		},
		Ingredients: []ingredient.Ingredient{inMonths("A", 3, 4), inMonths("B", 6)},
		Holidays:    []holiday.Resolved{resolvedOn("단오", time.Date(2026, time.June, 19, 0, 0, 0, 0, kst), "수리취떡")},
		Now:         now,
	}
	first := BuildNotifications(plan)
	second := BuildNotifications(plan)
	if len(first) != 3 {
		t.Fatalf("expected 3 notifications, got %+v", first)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same plan produced different notifications")
	}
}

func TestReschedule_AllDisabledStillCancels(t *testing.T) {
	platform := &fakePlatform{
		permission: notification.PermissionDenied,
		pending: []notification.Pending{
			{Scheduled: notification.Scheduled{ID: 10003}},
			{Scheduled: notification.Scheduled{ID: 20001}},
		},
	}
	svc := NewNotificationServiceImpl(testLogger())

	result, err := svc.Reschedule(context.Background(), platform, SchedulePlan{Setting: notification.DefaultSetting(), Now: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Scheduled) != 0 || result.Cancelled != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if platform.cancelCalls != 1 || platform.scheduleCalls != 0 {
		t.Fatalf("cancel calls %d, schedule calls %d", platform.cancelCalls, platform.scheduleCalls)
	}
	if platform.permissionCalls != 0 {
		t.Fatal("clearing the schedule must not ask for permission")
	}
}

func TestReschedule_EmptyPendingStillCallsCancel(t *testing.T) {
	platform := &fakePlatform{permission: notification.PermissionGranted}
	svc := NewNotificationServiceImpl(testLogger())
	if _, err := svc.Reschedule(context.Background(), platform, SchedulePlan{Setting: notification.DefaultSetting(), Now: time.Now()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if platform.cancelCalls != 1 {
		t.Fatalf("cancel calls = %d", platform.cancelCalls)
	}
}

func enabledPlan(now time.Time) SchedulePlan {
	setting := notification.DefaultSetting()
	setting.Ingredient = ingredientSetting(1)
	return SchedulePlan{
		Setting:     setting,
		Ingredients: []ingredient.Ingredient{inMonths("냉이", 3, 4)},
		Now:         now,
	}
}

func TestReschedule_PromptsThenSchedules(t *testing.T) {
	platform := &fakePlatform{
		permission:   notification.PermissionPrompt,
		afterRequest: notification.PermissionGranted,
		pending:      []notification.Pending{{Scheduled: notification.Scheduled{ID: 10005}}},
	}
	svc := NewNotificationServiceImpl(testLogger())

	result, err := svc.Reschedule(context.Background(), platform, enabledPlan(time.Date(2026, time.February, 1, 0, 0, 0, 0, kst)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if platform.requestCalls != 1 || platform.channelCalls != 1 {
		t.Fatalf("request calls %d, channel calls %d", platform.requestCalls, platform.channelCalls)
	}
	if len(platform.cancelled) != 1 || platform.cancelled[0] != 10005 {
		t.Fatalf("cancelled = %v", platform.cancelled)
	}
	if platform.scheduleCalls != 1 || len(platform.scheduled) != 1 || result.BatchID == "" {
		t.Fatalf("unexpected scheduling %+v", platform.scheduled)
	}
}

func TestReschedule_PermissionDenied(t *testing.T) {
	for _, afterRequest := range []notification.PermissionState{notification.PermissionDenied, notification.PermissionPrompt} {
		platform := &fakePlatform{permission: notification.PermissionPrompt, afterRequest: afterRequest}
		svc := NewNotificationServiceImpl(testLogger())

		_, err := svc.Reschedule(context.Background(), platform, enabledPlan(time.Date(2026, time.February, 1, 0, 0, 0, 0, kst)))
		if !errors.Is(err, notification.ErrPermissionDenied) {
			t.Fatalf("after %q: expected ErrPermissionDenied, got %v", afterRequest, err)
		}
		if platform.cancelCalls != 0 || platform.scheduleCalls != 0 {
			t.Fatal("nothing may be touched when permission is denied")
		}
	}
}

func TestReschedule_ChannelErrorIsTolerated(t *testing.T) {
	platform := &fakePlatform{permission: notification.PermissionGranted, channelErr: errors.New("exists")}
	svc := NewNotificationServiceImpl(testLogger())

	if _, err := svc.Reschedule(context.Background(), platform, enabledPlan(time.Date(2026, time.February, 1, 0, 0, 0, 0, kst))); err != nil {
		t.Fatalf("channel errors must not fail the run: %v", err)
	}
	if platform.scheduleCalls != 1 {
		t.Fatal("expected a schedule call")
	}
}

func TestReschedule_RerunReproducesIDs(t *testing.T) {
	platform := &fakePlatform{permission: notification.PermissionGranted}
	svc := NewNotificationServiceImpl(testLogger())
	plan := enabledPlan(time.Date(2026, time.February, 1, 0, 0, 0, 0, kst))

	first, err := svc.Reschedule(context.Background(), platform, plan)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Reschedule(context.Background(), platform, plan)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first.Scheduled, second.Scheduled) {
		t.Fatal("reruns with the same now must produce the same list")
	}
	if second.Cancelled != len(first.Scheduled) {
		t.Fatalf("second run should cancel the first batch, cancelled %d", second.Cancelled)
	}
}
