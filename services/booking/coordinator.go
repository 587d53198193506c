package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentorbase/agenda-api/models"
	"github.com/mentorbase/agenda-api/redis"
	"github.com/mentorbase/agenda-api/utils"
)

// Notifier hands a committed booking to the outbound notification queue.
// Enqueue failures are the notifier's problem; they never reach the booking.
type Notifier interface {
	BookingCreated(b *models.Booking)
}

// Coordinator drives the booking wizard and owns its only mutation point,
// the atomic commit. All read paths are safe for concurrent use.
type Coordinator struct {
	Repo     Repository
	Notifier Notifier
	Logger   *zap.Logger

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCoordinator(repo Repository, notifier Notifier, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Coordinator{
		Repo:     repo,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

// ResolveLink turns a shareable token into a usable BookingLink.
func (co *Coordinator) ResolveLink(token string) (*models.BookingLink, error) {
	link, err := co.Repo.LinkByToken(token)
	if err != nil {
		return nil, err
	}
	if !link.Usable(co.Now()) {
		return nil, NewFlowError(CodeLinkExpiredOrInactive, "booking link is inactive or expired")
	}
	return link, nil
}

// StartFlow opens a wizard for an owner, applying link overrides when the
// flow came in through a booking link.
func (co *Coordinator) StartFlow(ownerID uint, link *models.BookingLink) (*Flow, error) {
	cfg, err := co.Repo.ScheduleConfigByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	f := &Flow{
		State:   StateSelectingDate,
		OwnerID: ownerID,
		Link:    link,
		Config:  cfg,
	}
	if link != nil {
		if link.TitleOverride != nil {
			f.Title = *link.TitleOverride
		}
		if link.DurationOverrideMin != nil {
			f.DurationMin = *link.DurationOverrideMin
		}
		f.Contact = ContactInfo{
			Kind:  link.ContactKind,
			RefID: link.ContactRefID,
			Name:  link.ContactName,
			Email: link.ContactEmail,
			Phone: link.ContactPhone,
		}
	}
	return f, nil
}

// SelectDate moves the wizard onto a date with at least one open slot. With
// no open slot the state does not advance and NoSlotsAvailable is returned.
func (co *Coordinator) SelectDate(f *Flow, date time.Time) error {
	if !f.in(StateSelectingDate, StateSelectingTime) {
		return NewFlowError(CodeValidationError, "cannot select a date from state %s", f.State)
	}

	slots, err := co.AvailableSlots(f.OwnerID, f.Config, date, f.DurationMin, co.Now())
	if err != nil {
		return err
	}

	open := 0
	for _, s := range slots {
		if s.Available {
			open++
		}
	}
	if open == 0 {
		return NewFlowError(CodeNoSlotsAvailable, "no open slots on %s", date.Format("2006-01-02"))
	}

	f.Date = date
	f.Slots = slots
	f.State = StateSelectingTime
	return nil
}

// SelectTime picks a slot by its start instant. The availability of the
// chosen slot is recomputed from storage here, never trusted from the
// snapshot the caller saw: a stale selection bounces the wizard back to
// SelectingTime with a refreshed slot list.
func (co *Coordinator) SelectTime(f *Flow, start time.Time) error {
	if !f.in(StateSelectingTime) {
		return NewFlowError(CodeValidationError, "cannot select a time from state %s", f.State)
	}

	slots, err := co.AvailableSlots(f.OwnerID, f.Config, f.Date, f.DurationMin, co.Now())
	if err != nil {
		return err
	}
	f.Slots = slots

	for i := range slots {
		if slots[i].Start.Equal(start) {
			if !slots[i].Available {
				return NewFlowError(CodeSlotTaken, "slot %s is no longer available", start.Format(time.RFC3339))
			}
			f.Selected = &slots[i]
			f.State = StateCollectingContact
			return nil
		}
	}
	return NewFlowError(CodeSlotTaken, "slot %s is not offered on %s",
		start.Format(time.RFC3339), f.Date.Format("2006-01-02"))
}

// CollectContact validates the visitor's details and builds the pending
// booking request.
func (co *Coordinator) CollectContact(f *Flow, info ContactInfo) error {
	if !f.in(StateCollectingContact) {
		return NewFlowError(CodeValidationError, "cannot collect contact from state %s", f.State)
	}
	if err := info.Validate(); err != nil {
		return err
	}

	f.Contact = info
	title := f.Title
	if title == "" {
		title = fmt.Sprintf("Mentorship call - %s", info.Name)
	}

	var linkToken *string
	if f.Link != nil {
		t := f.Link.Token
		linkToken = &t
	}

	f.Pending = &models.Booking{
		OwnerID:       f.OwnerID,
		StartDatetime: f.Selected.Start,
		EndDatetime:   f.Selected.End,
		DurationMin:   int(f.Selected.End.Sub(f.Selected.Start) / time.Minute),
		Title:         title,
		Status:        models.StatusScheduled,
		ContactKind:   info.Kind,
		ContactRefID:  info.RefID,
		ContactName:   info.Name,
		ContactEmail:  info.Email,
		ContactPhone:  info.Phone,
		LinkToken:     linkToken,
	}
	f.State = StateConfirming
	return nil
}

// Confirm is the commit step: a single atomic conditional write. On
// SlotTaken the wizard auto-restarts at SelectingTime with a freshly
// recomputed slot list; any other failure parks it in Failed until the
// caller explicitly retries.
func (co *Coordinator) Confirm(ctx context.Context, f *Flow) (*models.Booking, error) {
	if !f.in(StateConfirming) {
		return nil, NewFlowError(CodeValidationError, "cannot confirm from state %s", f.State)
	}

	if err := co.Repo.CommitBooking(ctx, f.Pending); err != nil {
		if IsCode(err, CodeSlotTaken) {
			f.Selected = nil
			f.Pending = nil
			f.State = StateSelectingTime
			if slots, ferr := co.AvailableSlots(f.OwnerID, f.Config, f.Date, f.DurationMin, co.Now()); ferr == nil {
				f.Slots = slots
			} else {
				co.Logger.Warn("could not refresh slots after conflict", zap.Error(ferr))
				f.Slots = nil
			}
			return nil, err
		}
		f.State = StateFailed
		return nil, err
	}

	f.State = StateBooked
	f.BookingID = f.Pending.ID
	booked := f.Pending
	co.afterBooked(booked)
	return booked, nil
}

// Retry re-arms a Failed wizard for another Confirm. Only non-conflict
// failures land in Failed, so the pending request is still intact.
func (co *Coordinator) Retry(f *Flow) error {
	if !f.in(StateFailed) {
		return NewFlowError(CodeValidationError, "cannot retry from state %s", f.State)
	}
	if f.Pending == nil {
		return NewFlowError(CodeValidationError, "nothing to retry")
	}
	f.State = StateConfirming
	return nil
}

// afterBooked runs the best-effort side effects of a committed booking:
// link usage counters and the outbound notification. None of them may fail
// the booking; they are logged and dropped.
func (co *Coordinator) afterBooked(b *models.Booking) {
	if b.LinkToken != nil {
		if redis.Client != nil {
			if err := redis.Client.Incr(redis.Ctx, redis.LinkUsageKey(*b.LinkToken)).Err(); err != nil {
				co.Logger.Warn("link usage counter incr failed",
					zap.String("token", *b.LinkToken), zap.Error(err))
			}
		}
		if err := co.Repo.BumpLinkUsage(*b.LinkToken); err != nil {
			co.Logger.Warn("link usage column bump failed",
				zap.String("token", *b.LinkToken), zap.Error(err))
		}
	}

	if co.Notifier != nil {
		co.Notifier.BookingCreated(b)
	}
}

// CreateRequest is the single create-booking operation: one of OwnerID or
// LinkToken selects the agenda, Start is the zoned slot start.
type CreateRequest struct {
	OwnerID     uint
	LinkToken   string
	Start       time.Time
	DurationMin int
	Title       string
	Contact     ContactInfo
}

// CreateBooking drives the whole wizard in one call for API clients that do
// not hold flow state themselves.
func (co *Coordinator) CreateBooking(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	var link *models.BookingLink
	ownerID := req.OwnerID
	if req.LinkToken != "" {
		var err error
		if link, err = co.ResolveLink(req.LinkToken); err != nil {
			return nil, err
		}
		ownerID = link.OwnerID
	}
	if ownerID == 0 {
		return nil, NewFlowError(CodeValidationError, "schedule_owner_id or link_token is required")
	}

	f, err := co.StartFlow(ownerID, link)
	if err != nil {
		return nil, err
	}
	if req.DurationMin > 0 {
		f.DurationMin = req.DurationMin
	}
	if req.Title != "" {
		f.Title = req.Title
	}

	loc, err := time.LoadLocation(f.Config.Timezone)
	if err != nil {
		return nil, NewFlowError(CodeInvalidConfig, "unknown timezone %q", f.Config.Timezone)
	}

	if err := co.SelectDate(f, utils.StartOfDay(req.Start, loc)); err != nil {
		return nil, err
	}
	if err := co.SelectTime(f, req.Start); err != nil {
		return nil, err
	}

	contact := req.Contact
	if link != nil {
		if contact.Kind == "" {
			contact.Kind = f.Contact.Kind
		}
		if contact.RefID == nil {
			contact.RefID = f.Contact.RefID
		}
	}
	if contact.Kind == "" {
		contact.Kind = models.ContactAnonymous
	}
	if err := co.CollectContact(f, contact); err != nil {
		return nil, err
	}

	return co.Confirm(ctx, f)
}
