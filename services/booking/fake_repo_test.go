package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorbase/agenda-api/models"
)

// fakeRepo is an in-memory Repository for flow tests. The SQLite-backed
// tests in repo_test.go cover the real storage semantics.
type fakeRepo struct {
	mu sync.Mutex

	cfg      *models.ScheduleConfig
	links    map[string]*models.BookingLink
	bookings []models.Booking

	bookingsErr error
	commitErr   error

	fetchCalls int
	usageBumps map[string]int
}

func newFakeRepo(cfg *models.ScheduleConfig) *fakeRepo {
	return &fakeRepo{
		cfg:        cfg,
		links:      map[string]*models.BookingLink{},
		usageBumps: map[string]int{},
	}
}

func (r *fakeRepo) ScheduleConfigByOwner(ownerID uint) (*models.ScheduleConfig, error) {
	if r.cfg == nil || r.cfg.OwnerID != ownerID {
		return nil, NewFlowError(CodeConfigUnavailable, "no schedule config for owner %d", ownerID)
	}
	return r.cfg, nil
}

func (r *fakeRepo) ActiveBookingsForWindow(ownerID uint, from, to time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchCalls++
	if r.bookingsErr != nil {
		return nil, r.bookingsErr
	}

	var out []models.Booking
	for _, b := range r.bookings {
		if b.OwnerID == ownerID && b.Blocks() && b.StartDatetime.Before(to) && from.Before(b.EndDatetime) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CommitBooking(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return r.commitErr
	}

	for _, existing := range r.bookings {
		if existing.OwnerID == b.OwnerID && existing.Blocks() &&
			existing.StartDatetime.Before(b.EndDatetime) && b.StartDatetime.Before(existing.EndDatetime) {
			return NewFlowError(CodeSlotTaken, "slot %s is already booked", b.StartDatetime)
		}
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.StatusScheduled
	}
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *fakeRepo) LinkByToken(token string) (*models.BookingLink, error) {
	link, ok := r.links[token]
	if !ok {
		return nil, NewFlowError(CodeLinkExpiredOrInactive, "unknown booking link")
	}
	return link, nil
}

func (r *fakeRepo) BumpLinkUsage(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usageBumps[token]++
	return nil
}
