package service

import (
	"fmt"
	"time"

	"doctor-discovery/internal/domain/entity"
)

const ClockLayout = "15:04"

// AppointmentSlotPlanner knows the daily grid of bookable start times
type AppointmentSlotPlanner struct {
	slots []string
	index map[string]struct{}
}

// NewAppointmentSlotPlanner builds the grid from opening time up to the last
// slot that ends by closing time.
func NewAppointmentSlotPlanner(open, close string, slotMinutes int) (*AppointmentSlotPlanner, error) {
	start, err := time.Parse(ClockLayout, open)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time %q: %w", open, err)
	}
	end, err := time.Parse(ClockLayout, close)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time %q: %w", close, err)
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", slotMinutes)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("opening time %s is not before closing time %s", open, close)
	}

	step := time.Duration(slotMinutes) * time.Minute
	planner := &AppointmentSlotPlanner{index: make(map[string]struct{})}
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		slot := t.Format(ClockLayout)
		planner.slots = append(planner.slots, slot)
		planner.index[slot] = struct{}{}
	}
	return planner, nil
}

// IsSlot reports whether clock is a start time on the grid
func (p *AppointmentSlotPlanner) IsSlot(clock string) bool {
	_, ok := p.index[clock]
	return ok
}

// Slots returns a copy of the daily grid
func (p *AppointmentSlotPlanner) Slots() []string {
	return append([]string(nil), p.slots...)
}

// Available returns the free slots on date. Slots already booked are removed,
// and on the current day so are slots that have started.
func (p *AppointmentSlotPlanner) Available(date, now time.Time, booked []entity.Appointment) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if !a.IsCancelled() {
			taken[a.Time] = struct{}{}
		}
	}

	sameDay := date.Format(time.DateOnly) == now.Format(time.DateOnly)
	current := now.Format(ClockLayout)

	free := []string{}
	for _, slot := range p.slots {
		if _, ok := taken[slot]; ok {
			continue
		}
		if sameDay && slot <= current {
			continue
		}
		free = append(free, slot)
	}
	return free
}
