package booking

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mentorbase/agenda-api/models"
)

func testCoordinator(repo Repository) *Coordinator {
	co := NewCoordinator(repo, nil, zap.NewNop())
	co.Now = func() time.Time { return testNow }
	return co
}

func TestMarkBookedSlots_SingleConflict(t *testing.T) {
	slots, err := GenerateSlots(weekdayConfig(), mustTime(t, 2025, time.June, 3, 0, 0), 0, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booked := []models.Booking{{
		OwnerID:       1,
		StartDatetime: mustTime(t, 2025, time.June, 3, 14, 0),
		EndDatetime:   mustTime(t, 2025, time.June, 3, 15, 0),
		Status:        models.StatusScheduled,
	}}

	marked := MarkBookedSlots(slots, booked)
	for _, s := range marked {
		wantAvailable := s.Start.Hour() != 14
		if s.Available != wantAvailable {
			t.Fatalf("slot %v availability = %v, want %v", s.Start, s.Available, wantAvailable)
		}
	}
}

func TestMarkBookedSlots_CancelledDoesNotBlock(t *testing.T) {
	slots, err := GenerateSlots(weekdayConfig(), mustTime(t, 2025, time.June, 3, 0, 0), 0, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	booked := []models.Booking{{
		OwnerID:       1,
		StartDatetime: mustTime(t, 2025, time.June, 3, 14, 0),
		EndDatetime:   mustTime(t, 2025, time.June, 3, 15, 0),
		Status:        models.StatusCancelled,
	}}

	for _, s := range MarkBookedSlots(slots, booked) {
		if !s.Available {
			t.Fatalf("cancelled booking must not block slot %v", s.Start)
		}
	}
}

func TestAvailableSlots_ExcludedWeekdaySkipsFetch(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	repo.bookingsErr = errors.New("store down")
	co := testCoordinator(repo)

	// Saturday: the weekday short-circuit must answer before the broken
	// bookings store is ever consulted.
	slots, err := co.AvailableSlots(1, repo.cfg, mustTime(t, 2025, time.June, 7, 0, 0), 0, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on excluded weekday, got %d", len(slots))
	}
	if repo.fetchCalls != 0 {
		t.Fatalf("bookings store must not be consulted for an excluded weekday, got %d calls", repo.fetchCalls)
	}
}

func TestAvailableSlots_FailedFetchNeverFailsOpen(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	repo.bookingsErr = errors.New("store down")
	co := testCoordinator(repo)

	_, err := co.AvailableSlots(1, repo.cfg, mustTime(t, 2025, time.June, 3, 0, 0), 0, testNow)
	if !IsCode(err, CodeAvailabilityUnknown) {
		t.Fatalf("expected AvailabilityUnknown, got %v", err)
	}
}
