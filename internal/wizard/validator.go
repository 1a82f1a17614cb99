package wizard

import (
	"strings"
	"time"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
)

// AddressMode selects how the deployment identifies a building: by picking
// a residential complex from a list, or by free-text street input.
type AddressMode string

const (
	AddressByComplex AddressMode = "complexes"
	AddressByStreet  AddressMode = "street"
)

// User-facing field labels. The validation message must name the missing
// fields exactly, so these are fixed strings, not derived.
const (
	labelComplex   = "Жилой комплекс"
	labelStreet    = "Улица"
	labelBuilding  = "Дом"
	labelApartment = "Квартира"
	labelTimeSlot  = "Время вывоза"
)

// CanAdvance gates leaving a step. It returns nil or a ValidationError
// whose message enumerates the missing required fields, comma-joined.
func CanAdvance(step Step, draft *domain.OrderDraft, mode AddressMode, now time.Time) error {
	switch step {
	case StepAddress:
		return validateAddress(draft, mode)
	case StepTime:
		return validateTime(draft, now)
	case StepVolume, StepConfirm:
		// Volume fields all have defaults; confirm is gated by submission.
		return nil
	}
	return nil
}

func validateAddress(draft *domain.OrderDraft, mode AddressMode) error {
	var missing []apperrors.ValidationDetail

	switch mode {
	case AddressByStreet:
		if strings.TrimSpace(draft.Address.Street) == "" {
			missing = append(missing, apperrors.ValidationDetail{Field: "street", Message: labelStreet})
		}
	default:
		if draft.Address.ComplexID == nil {
			missing = append(missing, apperrors.ValidationDetail{Field: "complexId", Message: labelComplex})
		}
	}
	if strings.TrimSpace(draft.Address.Building) == "" {
		missing = append(missing, apperrors.ValidationDetail{Field: "building", Message: labelBuilding})
	}
	if strings.TrimSpace(draft.Address.Apartment) == "" {
		missing = append(missing, apperrors.ValidationDetail{Field: "apartment", Message: labelApartment})
	}

	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

func validateTime(draft *domain.OrderDraft, now time.Time) error {
	if !draft.Time.Selected() {
		return missingFieldsError([]apperrors.ValidationDetail{
			{Field: "timeSlot", Message: labelTimeSlot},
		})
	}
	if draft.Time.Urgent {
		// Urgent forces today and bypasses date validation.
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if draft.DeliveryDate.Before(today) {
		return apperrors.NewValidationError(
			"Дата вывоза не может быть раньше сегодняшней",
			apperrors.ValidationDetail{Field: "date", Message: "дата раньше сегодняшней"},
		)
	}
	return nil
}

func missingFieldsError(details []apperrors.ValidationDetail) *apperrors.ValidationError {
	labels := make([]string, len(details))
	for i, d := range details {
		labels[i] = d.Message
	}
	message := "Заполните обязательные поля: " + strings.Join(labels, ", ")
	return apperrors.NewValidationError(message, details...)
}
