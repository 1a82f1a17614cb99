package wizard

import "ecovoz/internal/domain"

type Step string

const (
	StepAddress Step = "address"
	StepVolume  Step = "volume"
	StepTime    Step = "time"
	StepConfirm Step = "confirm"
)

var (
	singleSteps  = []Step{StepAddress, StepTime, StepConfirm}
	monthlySteps = []Step{StepAddress, StepVolume, StepTime, StepConfirm}
)

// StepsFor maps a tariff to its immutable ordered step list. The volume
// step exists only for monthly subscriptions.
func StepsFor(tariff domain.Tariff) []Step {
	switch tariff {
	case domain.TariffSingle:
		return singleSteps
	case domain.TariffTrial:
		return singleSteps
	case domain.TariffMonthly:
		return monthlySteps
	}
	return singleSteps
}

// ClampIndex keeps a step index inside [0, len(steps)-1].
func ClampIndex(i int, steps []Step) int {
	if i < 0 {
		return 0
	}
	if i > len(steps)-1 {
		return len(steps) - 1
	}
	return i
}

// Advance moves one step forward. At the terminal step it stays put; the
// caller handles confirm-step advancement as submission.
func Advance(i int, steps []Step) int {
	return ClampIndex(i+1, steps)
}

// Retreat moves one step back. At the first step it reports that the caller
// should leave the wizard entirely.
func Retreat(i int) (next int, exit bool) {
	if i <= 0 {
		return 0, true
	}
	return i - 1, false
}
