// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring invoice dueness
// checking. Each billing frequency has its own strategy that encapsulates
// the logic for deciding whether a template should bill again.

package services

import (
	"fmt"
	"time"

	"adbill/internal/core"
)

// DuenessChecker is the strategy interface for checking if a recurring
// invoice template is due. anchor is the template's invoice date; it fixes
// the day of month (and month, for yearly schedules) the billing cycle
// targets.
type DuenessChecker interface {
	IsDue(lastRun, now time.Time, anchor time.Time) bool
}

// WeeklyChecker bills once 7 or more days have passed since the last run.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastRun, now time.Time, _ time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	daysSince := now.Sub(lastRun).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker bills in each new month once the anchor day is reached.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastRun, now time.Time, anchor time.Time) bool {
	if lastRun.IsZero() {
		return true
	}

	// Already billed this month?
	if lastRun.Year() == now.Year() && lastRun.Month() == now.Month() {
		return false
	}

	return now.Day() >= clampDay(anchor.Day(), now)
}

// QuarterlyChecker bills every third calendar month once the anchor day is
// reached.
type QuarterlyChecker struct{}

func (QuarterlyChecker) IsDue(lastRun, now time.Time, anchor time.Time) bool {
	if lastRun.IsZero() {
		return true
	}

	monthsSince := (now.Year()-lastRun.Year())*12 + int(now.Month()) - int(lastRun.Month())
	if monthsSince < 3 {
		return false
	}
	if monthsSince > 3 {
		return true
	}
	return now.Day() >= clampDay(anchor.Day(), now)
}

// YearlyChecker bills in each new year once the anchor month and day are
// reached.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastRun, now time.Time, anchor time.Time) bool {
	if lastRun.IsZero() {
		return true
	}

	// Already billed this year?
	if lastRun.Year() == now.Year() {
		return false
	}

	if now.Month() < anchor.Month() {
		return false
	}
	if now.Month() == anchor.Month() {
		return now.Day() >= clampDay(anchor.Day(), now)
	}
	return true
}

// clampDay resolves the anchor day within the current month, so a template
// anchored on the 31st still bills in February.
func clampDay(targetDay int, now time.Time) int {
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		return lastDayOfMonth
	}
	return targetDay
}

// duenessStrategies maps billing frequencies to their checkers.
var duenessStrategies = map[core.RecurringFrequency]DuenessChecker{
	core.FreqWeekly:    WeeklyChecker{},
	core.FreqMonthly:   MonthlyChecker{},
	core.FreqQuarterly: QuarterlyChecker{},
	core.FreqYearly:    YearlyChecker{},
}

// GetDuenessChecker returns the checker for a billing frequency. FreqNone
// has no checker: a template that never recurs is never due.
func GetDuenessChecker(frequency core.RecurringFrequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown billing frequency: %s", frequency)
	}
	return checker, nil
}
