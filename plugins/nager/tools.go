package nager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/tools"
)

// HolidaysInput is the public_holidays tool input
type HolidaysInput struct {
	CountryCode string `json:"country_code" description:"ISO 3166-1 alpha-2 country code (e.g. 'AU', 'US')"`
	Year        int    `json:"year,omitempty" description:"Year to list; omit for the holidays still ahead this year"`
}

// HolidaysTool lists public holidays and long weekends for a country
type HolidaysTool struct {
	client   *Client
	location *time.Location
	now      func() time.Time
}

func NewHolidaysTool(client *Client, gk *genkit.Genkit, registry *tools.Registry, loc *time.Location) *HolidaysTool {
	if loc == nil {
		loc = time.UTC
	}
	t := &HolidaysTool{client: client, location: loc, now: time.Now}
	tools.Define(gk, registry, t, func(ctx context.Context, input *HolidaysInput) (string, error) {
		if input == nil {
			input = &HolidaysInput{}
		}
		return t.Execute(ctx, *input)
	})
	return t
}

func (t *HolidaysTool) Name() string {
	return "public_holidays"
}

func (t *HolidaysTool) Description() string {
	return "Lists public holidays and long weekends for a country. " +
		"Useful for checking whether shops and attractions may be closed or roads busy on a travel day."
}

func (t *HolidaysTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.Execute(ctx, HolidaysInput{
		CountryCode: tools.StringArg(args, "country_code"),
		Year:        tools.IntArg(args, "year"),
	})
}

// Execute fetches and formats holidays. Without a year only the rest of
// the current year is listed.
func (t *HolidaysTool) Execute(ctx context.Context, input HolidaysInput) (string, error) {
	country := strings.ToUpper(strings.TrimSpace(input.CountryCode))
	if country == "" {
		return "", fmt.Errorf("country_code is required")
	}

	today := t.now().In(t.location).Format("2006-01-02")
	year := input.Year
	upcomingOnly := year == 0
	if upcomingOnly {
		year = t.now().In(t.location).Year()
	}
	log.Debugf(ctx, "HolidaysTool executing for %s %d", country, year)

	holidays, err := t.client.GetPublicHolidays(ctx, year, country)
	if err != nil {
		log.Errorf(ctx, "HolidaysTool failed: %v", err)
		return "", err
	}
	weekends, err := t.client.GetLongWeekends(ctx, year, country)
	if err != nil {
		// Holidays alone are still useful
		log.Warnf(ctx, "Long weekends lookup failed: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Public holidays in %s (%d):\n", country, year)
	listed := 0
	for _, h := range holidays {
		if upcomingOnly && h.Date < today {
			continue
		}
		fmt.Fprintf(&b, "- %s %s", h.Date, h.Name)
		if h.LocalName != "" && h.LocalName != h.Name {
			fmt.Fprintf(&b, " (%s)", h.LocalName)
		}
		if !h.Global && len(h.Counties) > 0 {
			fmt.Fprintf(&b, " [regional: %s]", strings.Join(h.Counties, ", "))
		}
		b.WriteString("\n")
		listed++
	}
	if listed == 0 {
		b.WriteString("- none\n")
	}

	var longWeekends []string
	for _, w := range weekends {
		if upcomingOnly && w.EndDate < today {
			continue
		}
		line := fmt.Sprintf("- %s to %s (%d days", w.StartDate, w.EndDate, w.DayCount)
		if w.NeedBridgeDay {
			line += ", needs a bridge day"
		}
		longWeekends = append(longWeekends, line+")")
	}
	if len(longWeekends) > 0 {
		b.WriteString("\nLong weekends:\n")
		b.WriteString(strings.Join(longWeekends, "\n"))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
