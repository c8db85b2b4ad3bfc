package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/lock"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

const (
	msgVetUnavailable = "veterinarian is not available in this time range"
	msgScheduleBusy   = "veterinarian schedule is busy, please try again"
)

const (
	minDuration = 5 * time.Minute
	maxDuration = 4 * time.Hour
)

// Service provides the booking logic: validation, overlap detection and the
// status lifecycle. The availability check and the following write run inside
// a per-veterinarian critical section so two concurrent requests cannot both
// pass the check and double-book the slot.
type Service struct {
	appts  Repository
	locker lock.Locker
}

// NewService creates an appointment service.
func NewService(appts Repository, locker lock.Locker) *Service {
	return &Service{appts: appts, locker: locker}
}

// checkTimePair validates the relation between a start/end pair. Exactly 5
// minutes and exactly 4 hours are both valid.
func checkTimePair(v *validate.Violations, start, end time.Time) {
	if !end.After(start) {
		v.Add("end_time must be after start_time")
		return
	}
	d := end.Sub(start)
	if d < minDuration {
		v.Add("appointment must last at least 5 minutes")
	}
	if d > maxDuration {
		v.Add("appointment must not last more than 4 hours")
	}
}

func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (*Appointment, error) {
	in.Reason = strings.TrimSpace(in.Reason)

	var v validate.Violations
	if in.VeterinarianID == uuid.Nil {
		v.Add("veterinarian_id is required")
	}
	v.StringLength("reason", in.Reason, 5, 500)
	if in.StartTime.IsZero() {
		v.Add("start_time is required")
	} else {
		v.Future("start_time", in.StartTime)
	}
	if in.EndTime.IsZero() {
		v.Add("end_time is required")
	} else {
		v.Future("end_time", in.EndTime)
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() {
		checkTimePair(&v, in.StartTime, in.EndTime)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	appt := &Appointment{
		PatientID:      in.PatientID,
		ClientID:       in.ClientID,
		VeterinarianID: in.VeterinarianID,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         StatusScheduled,
		Reason:         in.Reason,
	}

	err := s.locker.WithVetLock(ctx, in.VeterinarianID, func(ctx context.Context) error {
		overlap, err := s.appts.HasOverlap(ctx, in.VeterinarianID, in.StartTime, in.EndTime, nil)
		if err != nil {
			return err
		}
		if overlap {
			return httperr.Conflict(msgVetUnavailable)
		}
		return s.appts.Create(ctx, appt)
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, httperr.Conflict(msgScheduleBusy)
	}
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if f.Status != "" {
		var v validate.Violations
		v.OneOf("status", f.Status, Statuses)
		if err := v.Err(); err != nil {
			return nil, 0, err
		}
	}
	return s.appts.List(ctx, f, limit, offset)
}

// UpdateAppointment applies a partial update. Availability is re-checked only
// when the veterinarian, start or end actually change, comparing the merged
// candidate slot against every other appointment of the target veterinarian.
// The future-time rule applies at creation only.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	var v validate.Violations

	if in.VeterinarianID.IsNull() {
		v.NotRemovable("veterinarian_id")
	}
	if in.StartTime.IsNull() {
		v.NotRemovable("start_time")
	}
	if in.EndTime.IsNull() {
		v.NotRemovable("end_time")
	}
	if in.Status.IsNull() {
		v.NotRemovable("status")
	} else if st, ok := in.Status.Value(); ok {
		v.OneOf("status", st, Statuses)
	}
	if in.Reason.IsNull() {
		v.NotRemovable("reason")
	} else if reason, ok := in.Reason.Value(); ok {
		reason = strings.TrimSpace(reason)
		in.Reason = patch.NewValue(reason)
		v.StringLength("reason", reason, 5, 500)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	_, vetChanged := in.VeterinarianID.Value()
	_, startChanged := in.StartTime.Value()
	_, endChanged := in.EndTime.Value()
	if !vetChanged && !startChanged && !endChanged {
		return s.appts.Update(ctx, id, in)
	}

	stored, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	vetID := stored.VeterinarianID
	if cand, ok := in.VeterinarianID.Value(); ok {
		vetID = cand
	}
	start := stored.StartTime
	if cand, ok := in.StartTime.Value(); ok {
		start = cand
	}
	end := stored.EndTime
	if cand, ok := in.EndTime.Value(); ok {
		end = cand
	}

	var tv validate.Violations
	checkTimePair(&tv, start, end)
	if err := tv.Err(); err != nil {
		return nil, err
	}

	var updated *Appointment
	err = s.locker.WithVetLock(ctx, vetID, func(ctx context.Context) error {
		overlap, err := s.appts.HasOverlap(ctx, vetID, start, end, &id)
		if err != nil {
			return err
		}
		if overlap {
			return httperr.Conflict(msgVetUnavailable)
		}
		updated, err = s.appts.Update(ctx, id, in)
		return err
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, httperr.Conflict(msgScheduleBusy)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAppointment removes an appointment unless its status forbids it.
// Completed and canceled appointments are kept for the clinical record; a
// no-show remains deletable.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	stored, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.Status == StatusCompleted || stored.Status == StatusCanceled {
		return httperr.Conflict(fmt.Sprintf("cannot delete an appointment with status '%s'", stored.Status))
	}
	return s.appts.Delete(ctx, id)
}
