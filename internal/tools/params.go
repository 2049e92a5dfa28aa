package tools

import (
	"sort"
	"strings"
	"time"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/textnorm"
)

// Window is a half-open date range [Start, End).
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Month returns the YYYY-MM of the window start.
func (w Window) Month() string {
	return w.Start.Format(models.MonthLayout)
}

// Params are the inputs a tool receives besides the snapshot.
type Params struct {
	Window   Window
	Category models.Category // empty means all categories
	Text     textnorm.Text
	Now      time.Time
}

// categoryKeywords maps phrases to categories; first match wins.
var categoryKeywords = []struct {
	category models.Category
	phrases  []string
}{
	{models.CategoryFood, []string{"dining", "dine", "restaurant", "restaurants", "food", "eat", "eating", "takeout", "coffee"}},
	{models.CategoryGroceries, []string{"grocery", "groceries", "supermarket"}},
	{models.CategoryTransportation, []string{"transportation", "transport", "gas", "fuel", "uber", "taxi", "commute"}},
	{models.CategoryShopping, []string{"shopping", "clothes", "clothing"}},
	{models.CategoryEntertainment, []string{"entertainment", "movies", "concert", "concerts"}},
	{models.CategoryUtilities, []string{"utilities", "utility", "electricity", "internet"}},
	{models.CategoryHousing, []string{"housing", "rent", "mortgage"}},
	{models.CategoryHealthcare, []string{"healthcare", "health care", "doctor", "pharmacy", "medical"}},
	{models.CategorySubscriptions, []string{"subscriptions", "subscription", "netflix", "spotify"}},
	{models.CategoryTravel, []string{"travel", "flight", "flights", "hotel", "hotels"}},
	{models.CategoryIncome, []string{"income", "salary", "paycheck"}},
}

// ExtractParams derives the time window and category filter from a message.
// Without a time phrase the window is the current calendar month.
func ExtractParams(message string, now time.Time) Params {
	text := textnorm.New(message)
	w, ok := windowFor(text, now)
	if !ok {
		w = MonthWindow(now)
	}
	return Params{
		Window:   w,
		Category: categoryFor(text),
		Text:     text,
		Now:      now,
	}
}

// windowFor matches the first time phrase in text. Calendar phrases ("last
// week", "last year") mean whole calendar periods; "last 7 days" and
// "recent" mean trailing windows ending today.
func windowFor(text textnorm.Text, now time.Time) (Window, bool) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7)) // Monday
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	has := func(phrases ...string) bool {
		_, ok := text.First(phrases...)
		return ok
	}

	switch {
	case has("last month", "previous month"):
		return Window{Label: "last month", Start: monthStart.AddDate(0, -1, 0), End: monthStart}, true
	case has("this month"):
		return MonthWindow(now), true
	case has("today"):
		return Window{Label: "today", Start: today, End: tomorrow}, true
	case has("yesterday"):
		return Window{Label: "yesterday", Start: today.AddDate(0, 0, -1), End: today}, true
	case has("last 7 days", "past 7 days", "past week"):
		return Window{Label: "the last 7 days", Start: today.AddDate(0, 0, -6), End: tomorrow}, true
	case has("this week"):
		return Window{Label: "this week", Start: weekStart, End: tomorrow}, true
	case has("last week", "previous week"):
		return Window{Label: "last week", Start: weekStart.AddDate(0, 0, -7), End: weekStart}, true
	case has("last 30 days", "past 30 days", "recent", "recently"):
		return Window{Label: "the last 30 days", Start: today.AddDate(0, 0, -29), End: tomorrow}, true
	case has("last year", "previous year"):
		return Window{Label: "last year", Start: yearStart.AddDate(-1, 0, 0), End: yearStart}, true
	case has("this year", "year to date", "ytd"):
		return Window{Label: "this year", Start: yearStart, End: yearStart.AddDate(1, 0, 0)}, true
	}
	return Window{}, false
}

// Context keys a client may send with a chat message to steer the tool.
const (
	HintCategory = "category" // a category name, e.g. "Food"
	HintWindow   = "window"   // a time phrase, e.g. "last month"
	HintMonth    = "month"    // a calendar month, YYYY-MM
)

// ApplyHints overrides the parameters derived from the message with values
// from a client-supplied context. It returns the keys it used and the keys
// it ignored (unknown keys or unusable values), both sorted. A month hint
// wins over a window hint.
func ApplyHints(p Params, hints map[string]any) (Params, []string, []string) {
	var applied, ignored []string
	str := func(key string) (string, bool) {
		s, ok := hints[key].(string)
		return strings.TrimSpace(s), ok && strings.TrimSpace(s) != ""
	}
	month, hasMonth := str(HintMonth)
	monthStart, err := parseMonth(month)
	hasMonth = hasMonth && err == nil

	for key := range hints {
		switch key {
		case HintCategory:
			s, ok := str(key)
			c, err := models.ParseCategory(s)
			if !ok || err != nil {
				ignored = append(ignored, key)
				continue
			}
			p.Category = c
		case HintWindow:
			s, ok := str(key)
			if !ok {
				ignored = append(ignored, key)
				continue
			}
			w, ok := windowFor(textnorm.New(s), p.Now)
			if !ok {
				ignored = append(ignored, key)
				continue
			}
			if !hasMonth {
				p.Window = w
			}
		case HintMonth:
			if !hasMonth {
				ignored = append(ignored, key)
				continue
			}
			p.Window = Window{Label: monthStart.Format("January 2006"), Start: monthStart, End: monthStart.AddDate(0, 1, 0)}
		default:
			ignored = append(ignored, key)
			continue
		}
		applied = append(applied, key)
	}

	sort.Strings(applied)
	sort.Strings(ignored)
	return p, applied, ignored
}

// MonthWindow is the calendar month containing now.
func MonthWindow(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Label: "this month", Start: start, End: start.AddDate(0, 1, 0)}
}

func categoryFor(text textnorm.Text) models.Category {
	for _, ck := range categoryKeywords {
		if _, ok := text.First(ck.phrases...); ok {
			return ck.category
		}
	}
	return ""
}

func parseMonth(month string) (time.Time, error) {
	return time.Parse(models.MonthLayout, month)
}

// joinList renders "a", "a and b", "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
