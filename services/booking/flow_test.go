package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorbase/agenda-api/models"
)

func validContact() ContactInfo {
	return ContactInfo{
		Kind:  models.ContactLead,
		Name:  "Maria Silva",
		Email: "maria@example.com",
	}
}

func TestFlow_HappyPath(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	f, err := co.StartFlow(1, nil)
	if err != nil {
		t.Fatalf("StartFlow: %v", err)
	}
	if f.State != StateSelectingDate {
		t.Fatalf("expected SelectingDate, got %s", f.State)
	}

	if err := co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0)); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if f.State != StateSelectingTime {
		t.Fatalf("expected SelectingTime, got %s", f.State)
	}
	if len(f.Slots) != 9 {
		t.Fatalf("expected 9 slots in snapshot, got %d", len(f.Slots))
	}

	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 14, 0)); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if f.State != StateCollectingContact {
		t.Fatalf("expected CollectingContact, got %s", f.State)
	}

	// Nothing persisted before Confirm: abandoning here must leave no trace.
	if len(repo.bookings) != 0 {
		t.Fatalf("no booking may be persisted before Confirm")
	}

	if err := co.CollectContact(f, validContact()); err != nil {
		t.Fatalf("CollectContact: %v", err)
	}
	if f.State != StateConfirming {
		t.Fatalf("expected Confirming, got %s", f.State)
	}
	if f.Pending == nil || f.Pending.DurationMin != 60 {
		t.Fatalf("expected pending 60 minute booking, got %+v", f.Pending)
	}

	booked, err := co.Confirm(context.Background(), f)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if f.State != StateBooked {
		t.Fatalf("expected Booked, got %s", f.State)
	}
	if booked.ID == "" || f.BookingID != booked.ID {
		t.Fatalf("expected booking ID recorded on flow")
	}
	if len(repo.bookings) != 1 {
		t.Fatalf("expected exactly one persisted booking, got %d", len(repo.bookings))
	}
	if repo.bookings[0].Status != models.StatusScheduled {
		t.Fatalf("expected scheduled status, got %s", repo.bookings[0].Status)
	}
}

func TestFlow_SelectDateWithoutOpenSlots(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	// One booking covering the whole work day.
	repo.bookings = []models.Booking{{
		OwnerID:       1,
		StartDatetime: mustTime(t, 2025, time.June, 3, 9, 0),
		EndDatetime:   mustTime(t, 2025, time.June, 3, 18, 0),
		Status:        models.StatusConfirmed,
	}}
	co := testCoordinator(repo)

	f, err := co.StartFlow(1, nil)
	if err != nil {
		t.Fatalf("StartFlow: %v", err)
	}

	err = co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0))
	if !IsCode(err, CodeNoSlotsAvailable) {
		t.Fatalf("expected NoSlotsAvailable, got %v", err)
	}
	if f.State != StateSelectingDate {
		t.Fatalf("state must not advance without open slots, got %s", f.State)
	}
}

func TestFlow_StaleSelectionBouncesBack(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	f, err := co.StartFlow(1, nil)
	if err != nil {
		t.Fatalf("StartFlow: %v", err)
	}
	if err := co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0)); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}

	// Another visitor books 14:00 after the snapshot was taken.
	repo.bookings = append(repo.bookings, models.Booking{
		OwnerID:       1,
		StartDatetime: mustTime(t, 2025, time.June, 3, 14, 0),
		EndDatetime:   mustTime(t, 2025, time.June, 3, 15, 0),
		Status:        models.StatusScheduled,
	})

	err = co.SelectTime(f, mustTime(t, 2025, time.June, 3, 14, 0))
	if !IsCode(err, CodeSlotTaken) {
		t.Fatalf("expected SlotTaken for stale selection, got %v", err)
	}
	if f.State != StateSelectingTime {
		t.Fatalf("expected bounce back to SelectingTime, got %s", f.State)
	}
	for _, s := range f.Slots {
		if s.Start.Hour() == 14 && s.Available {
			t.Fatalf("refreshed snapshot must show 14:00 unavailable")
		}
	}

	// A different slot still works.
	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 15, 0)); err != nil {
		t.Fatalf("SelectTime on open slot: %v", err)
	}
	if f.State != StateCollectingContact {
		t.Fatalf("expected CollectingContact, got %s", f.State)
	}
}

func TestFlow_ContactValidation(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	f, _ := co.StartFlow(1, nil)
	if err := co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0)); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 9, 0)); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}

	err := co.CollectContact(f, ContactInfo{Email: "x@example.com"})
	if !IsCode(err, CodeValidationError) {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}
	err = co.CollectContact(f, ContactInfo{Name: "João"})
	if !IsCode(err, CodeValidationError) {
		t.Fatalf("expected ValidationError for missing contact channel, got %v", err)
	}
	if f.State != StateCollectingContact {
		t.Fatalf("state must not advance on invalid contact, got %s", f.State)
	}

	if err := co.CollectContact(f, ContactInfo{Name: "João", Phone: "+55 11 99999-0000"}); err != nil {
		t.Fatalf("phone only must satisfy the contact channel rule: %v", err)
	}
}

func TestFlow_ConflictAutoRestartsAtSelectingTime(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	f, _ := co.StartFlow(1, nil)
	if err := co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0)); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 14, 0)); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if err := co.CollectContact(f, validContact()); err != nil {
		t.Fatalf("CollectContact: %v", err)
	}

	// The same slot is committed by a concurrent flow between validation
	// and commit.
	repo.bookings = append(repo.bookings, models.Booking{
		OwnerID:       1,
		StartDatetime: mustTime(t, 2025, time.June, 3, 14, 0),
		EndDatetime:   mustTime(t, 2025, time.June, 3, 15, 0),
		Status:        models.StatusScheduled,
	})

	_, err := co.Confirm(context.Background(), f)
	if !IsCode(err, CodeSlotTaken) {
		t.Fatalf("expected SlotTaken, got %v", err)
	}
	if f.State != StateSelectingTime {
		t.Fatalf("conflict must auto-restart at SelectingTime, got %s", f.State)
	}
	if f.Pending != nil || f.Selected != nil {
		t.Fatalf("conflicted selection must be dropped")
	}
	for _, s := range f.Slots {
		if s.Start.Hour() == 14 && s.Available {
			t.Fatalf("refreshed filter must show the taken slot as unavailable")
		}
	}

	// Picking a free slot completes the flow.
	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 15, 0)); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if err := co.CollectContact(f, validContact()); err != nil {
		t.Fatalf("CollectContact: %v", err)
	}
	if _, err := co.Confirm(context.Background(), f); err != nil {
		t.Fatalf("Confirm after restart: %v", err)
	}
	if f.State != StateBooked {
		t.Fatalf("expected Booked, got %s", f.State)
	}
}

func TestFlow_PersistenceFailureRequiresExplicitRetry(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	f, _ := co.StartFlow(1, nil)
	if err := co.SelectDate(f, mustTime(t, 2025, time.June, 3, 0, 0)); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := co.SelectTime(f, mustTime(t, 2025, time.June, 3, 10, 0)); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if err := co.CollectContact(f, validContact()); err != nil {
		t.Fatalf("CollectContact: %v", err)
	}

	repo.commitErr = errors.New("connection reset")
	if _, err := co.Confirm(context.Background(), f); err == nil {
		t.Fatalf("expected persistence error")
	}
	if f.State != StateFailed {
		t.Fatalf("expected Failed, got %s", f.State)
	}

	// Confirm is refused until the caller retries explicitly.
	if _, err := co.Confirm(context.Background(), f); !IsCode(err, CodeValidationError) {
		t.Fatalf("expected state guard, got %v", err)
	}

	repo.commitErr = nil
	if err := co.Retry(f); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if _, err := co.Confirm(context.Background(), f); err != nil {
		t.Fatalf("Confirm after retry: %v", err)
	}
	if f.State != StateBooked {
		t.Fatalf("expected Booked, got %s", f.State)
	}
}

func TestCreateBooking_ThroughLink(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	dur := 30
	title := "Strategy call"
	repo.links["tok-1"] = &models.BookingLink{
		Token:               "tok-1",
		OwnerID:             1,
		Active:              true,
		TitleOverride:       &title,
		DurationOverrideMin: &dur,
		ContactKind:         models.ContactMentee,
	}
	co := testCoordinator(repo)

	booked, err := co.CreateBooking(context.Background(), CreateRequest{
		LinkToken: "tok-1",
		Start:     mustTime(t, 2025, time.June, 3, 9, 30),
		Contact:   ContactInfo{Name: "Ana", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booked.DurationMin != 30 {
		t.Fatalf("link duration override must apply, got %d", booked.DurationMin)
	}
	if booked.Title != "Strategy call" {
		t.Fatalf("link title override must apply, got %q", booked.Title)
	}
	if booked.ContactKind != models.ContactMentee {
		t.Fatalf("link contact kind must carry over, got %s", booked.ContactKind)
	}
	if booked.LinkToken == nil || *booked.LinkToken != "tok-1" {
		t.Fatalf("booking must record its originating link")
	}
	if repo.usageBumps["tok-1"] != 1 {
		t.Fatalf("link usage must be bumped once, got %d", repo.usageBumps["tok-1"])
	}
}

func TestCreateBooking_InactiveLink(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	repo.links["tok-off"] = &models.BookingLink{Token: "tok-off", OwnerID: 1, Active: false}
	co := testCoordinator(repo)

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		LinkToken: "tok-off",
		Start:     mustTime(t, 2025, time.June, 3, 9, 0),
		Contact:   validContact(),
	})
	if !IsCode(err, CodeLinkExpiredOrInactive) {
		t.Fatalf("expected LinkExpiredOrInactive, got %v", err)
	}
}

func TestCreateBooking_ExpiredLink(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	expired := testNow.Add(-time.Hour)
	repo.links["tok-old"] = &models.BookingLink{Token: "tok-old", OwnerID: 1, Active: true, ExpiresAt: &expired}
	co := testCoordinator(repo)

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		LinkToken: "tok-old",
		Start:     mustTime(t, 2025, time.June, 3, 9, 0),
		Contact:   validContact(),
	})
	if !IsCode(err, CodeLinkExpiredOrInactive) {
		t.Fatalf("expected LinkExpiredOrInactive, got %v", err)
	}
}

func TestCreateBooking_RequiresOwnerOrToken(t *testing.T) {
	repo := newFakeRepo(weekdayConfig())
	co := testCoordinator(repo)

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		Start:   mustTime(t, 2025, time.June, 3, 9, 0),
		Contact: validContact(),
	})
	if !IsCode(err, CodeValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
