package notify

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avops/roomops-api-go/pkg/database"
	"github.com/avops/roomops-api-go/pkg/models"
	"github.com/avops/roomops-api-go/pkg/schedule"
)

// Reminder scans the events table once a minute and publishes a reminder
// for each event starting within the lead window, routed to whoever owns
// the event at its start time. Events with no resolved owner and no manual
// override produce nothing; nobody is paged for an unowned room.
type Reminder struct {
	store *database.Store
	cron  *cron.Cron
	lead  time.Duration
	now   func() time.Time

	sent map[string]string // event id -> event date, reminded this process
}

// NewReminder builds the scheduler. lead controls how far ahead of an
// event's start the reminder fires; zero defaults to fifteen minutes.
func NewReminder(store *database.Store, lead time.Duration) *Reminder {
	if lead <= 0 {
		lead = 15 * time.Minute
	}
	return &Reminder{
		store: store,
		cron:  cron.New(),
		lead:  lead,
		now:   time.Now,
		sent:  make(map[string]string),
	}
}

// Start registers the per-minute scan and launches the cron runner.
func (r *Reminder) Start() error {
	if _, err := r.cron.AddFunc("* * * * *", r.scan); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for an in-flight scan to finish.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// scanWindow is one (date, time range) slice of the lead window. A window
// near midnight splits in two: the remainder of today and the start of
// tomorrow, so early-morning events are caught before the date rolls over.
type scanWindow struct {
	date     string
	from, to models.ClockTime
}

const endOfDay = models.ClockTime(24*60 - 1)

func scanWindows(now time.Time, lead time.Duration) []scanWindow {
	nowClock := models.ClockTime(now.Hour()*60 + now.Minute())
	horizon := nowClock + models.ClockTime(lead.Minutes())

	windows := []scanWindow{{
		date: now.Format("2006-01-02"),
		from: nowClock,
		to:   min(horizon, endOfDay),
	}}
	if horizon > endOfDay {
		windows = append(windows, scanWindow{
			date: now.AddDate(0, 0, 1).Format("2006-01-02"),
			from: 0,
			to:   horizon - 24*60,
		})
	}
	return windows
}

// prune drops sent markers for dates before today so the map stays bounded
// to at most two days of event ids. Date keys compare lexically.
func (r *Reminder) prune(today string) {
	for id, date := range r.sent {
		if date < today {
			delete(r.sent, id)
		}
	}
}

func (r *Reminder) scan() {
	now := r.now()
	r.prune(now.Format("2006-01-02"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, w := range scanWindows(now, r.lead) {
		r.scanDate(ctx, w)
	}
}

func (r *Reminder) scanDate(ctx context.Context, w scanWindow) {
	events, err := r.store.EventsForDate(w.date)
	if err != nil {
		log.Printf("reminder: reading events for %s: %v", w.date, err)
		return
	}
	if len(events) == 0 {
		return
	}
	blocks, err := r.store.BlocksForDate(w.date)
	if err != nil {
		log.Printf("reminder: reading blocks for %s: %v", w.date, err)
		return
	}

	for _, ev := range events {
		if ev.Start < w.from || ev.Start > w.to {
			continue
		}
		if _, done := r.sent[ev.ID]; done {
			continue
		}
		owner := schedule.OwnerAt(ev, blocks, ev.Start)
		if owner == "" {
			continue
		}
		err := PublishReminder(ctx, ReminderEvent{
			EventID:  ev.ID,
			Title:    ev.Title,
			RoomName: ev.RoomName,
			Date:     ev.Date,
			StartsAt: ev.Start.String(),
			EndsAt:   ev.End.String(),
			OwnerID:  owner,
		})
		if err != nil {
			continue // leave unsent so the next scan retries
		}
		r.sent[ev.ID] = ev.Date
	}
}
