package schedule

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/tunreplay/internal/platform/validate"
	"github.com/taibuivan/tunreplay/pkg/slice"
)

type Service struct {
	repo   Repository
	logger *slog.Logger

	// now picks the day shown when none is requested.
	now func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock returns a copy of the service that reads the current day from now.
func (service *Service) WithClock(now func() time.Time) *Service {
	clone := *service
	clone.now = now
	return &clone
}

// Day returns the entries of day grouped into HH:MM slots in time order.
// An empty day means today.
func (service *Service) Day(context context.Context, day string) (*Day, error) {
	if day == "" {
		day = service.now().Weekday().String()
	}
	if err := (&validate.Validator{}).OneOf(FieldDay, day, Days...).Err(); err != nil {
		return nil, err
	}

	entries, err := service.repo.List(context, day)
	if err != nil {
		return nil, err
	}

	times, groups := slice.GroupBy(entries, func(entry *Entry) string { return SlotTime(entry.Time) })
	slices.SortStableFunc(times, cmp.Compare[string])

	view := &Day{Day: day, Slots: make([]Slot, 0, len(times))}
	for _, at := range times {
		view.Slots = append(view.Slots, Slot{Time: at, Entries: groups[at]})
	}
	return view, nil
}

// SlotTime reduces "H:MM", "HH:MM" and "HH:MM:SS" to a zero-padded "HH:MM".
func SlotTime(clock string) string {
	hour, rest, _ := strings.Cut(clock, ":")
	if len(hour) == 1 {
		hour = "0" + hour
	}
	minute, _, _ := strings.Cut(rest, ":")
	return hour + ":" + minute
}

// # Administration

// List returns every entry of day, or the whole week when day is "".
func (service *Service) List(context context.Context, day string) ([]*Entry, error) {
	if day != "" {
		if err := (&validate.Validator{}).OneOf(FieldDay, day, Days...).Err(); err != nil {
			return nil, err
		}
	}
	return service.repo.List(context, day)
}

func (service *Service) Create(context context.Context, entry *Entry) error {
	entry.Day = strings.TrimSpace(entry.Day)
	entry.Time = strings.TrimSpace(entry.Time)

	validator := &validate.Validator{}
	validator.OneOf(FieldDay, entry.Day, Days...).
		Clock(FieldTime, entry.Time).
		Positive(FieldSeriesID, entry.SeriesID)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, entry); err != nil {
		return err
	}

	service.logger.InfoContext(context, "schedule_created",
		slog.Int64("id", entry.ID),
		slog.String("day", entry.Day),
		slog.String("time", entry.Time),
		slog.Int64("series_id", entry.SeriesID),
	)
	return nil
}

func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "schedule_deleted", slog.Int64("id", id))
	return nil
}
