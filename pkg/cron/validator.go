package cron

import (
	"regexp"
	"strconv"
	"strings"
)

var cronPattern = regexp.MustCompile(`^(\*|([0-5]?\d)(-([0-5]?\d))?|(\*/[0-5]?\d)) ` +
	`(\*|([01]?\d|2[0-3])(-([01]?\d|2[0-3]))?|(\*/([01]?\d|2[0-3]))) ` +
	`(\*|([1-9]|[12]\d|3[01])(-([1-9]|[12]\d|3[01]))?|(\*/([1-9]|[12]\d|3[01]))) ` +
	`(\*|([1-9]|1[0-2])(-([1-9]|1[0-2]))?|(\*/([1-9]|1[0-2]))) ` +
	`(\*|[0-6](-[0-6])?|(\*/[0-6]))$`)

type fieldRange struct {
	min int
	max int
}

// minute, hour, day of month, month, day of week
var fieldRanges = [5]fieldRange{
	{min: 0, max: 59},
	{min: 0, max: 23},
	{min: 1, max: 31},
	{min: 1, max: 12},
	{min: 0, max: 6},
}

// Validate reports whether expression is a five-field cron schedule whose
// fields are a wildcard, a value, a range or a step within the field's bounds.
func Validate(expression string) bool {
	if !cronPattern.MatchString(expression) {
		return false
	}

	parts := strings.Split(expression, " ")
	if len(parts) != len(fieldRanges) {
		return false
	}

	for i, part := range parts {
		if !validField(part, fieldRanges[i]) {
			return false
		}
	}

	return true
}

func validField(part string, r fieldRange) bool {
	if part == "*" {
		return true
	}

	if _, step, ok := strings.Cut(part, "/"); ok {
		n, err := strconv.Atoi(step)
		return err == nil && n > 0 && n <= r.max
	}

	if start, end, ok := strings.Cut(part, "-"); ok {
		a, err := strconv.Atoi(start)
		if err != nil {
			return false
		}
		b, err := strconv.Atoi(end)
		if err != nil {
			return false
		}
		return a >= r.min && b <= r.max && a <= b
	}

	n, err := strconv.Atoi(part)
	return err == nil && n >= r.min && n <= r.max
}
