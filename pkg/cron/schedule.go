package cron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Next returns the first activation of expression strictly after from.
func Next(expression string, from time.Time) (time.Time, error) {
	if !Validate(expression) {
		return time.Time{}, fmt.Errorf("invalid cron expression %q", expression)
	}

	schedule, err := cron.ParseStandard(expression)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", expression, err)
	}

	return schedule.Next(from), nil
}

// NextN returns the next n activations of expression after from.
func NextN(expression string, from time.Time, n int) ([]time.Time, error) {
	if !Validate(expression) {
		return nil, fmt.Errorf("invalid cron expression %q", expression)
	}

	schedule, err := cron.ParseStandard(expression)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expression, err)
	}

	runs := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = schedule.Next(next)
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}

	return runs, nil
}
