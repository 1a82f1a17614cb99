package wizard

import (
	"strings"
	"testing"
	"time"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func completeAddressDraft(tariff domain.Tariff) *domain.OrderDraft {
	draft := domain.NewOrderDraft(tariff, testNow)
	complexID := int64(3)
	draft.Address = domain.Address{
		ComplexID: &complexID,
		Building:  "2к4",
		Apartment: "45",
	}
	return draft
}

func TestCanAdvance_AddressNamesMissingFields(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)
	draft.Address.Building = ""
	draft.Address.Apartment = ""

	err := CanAdvance(StepAddress, draft, AddressByComplex, testNow)
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	if !strings.Contains(ve.Message, "Дом") {
		t.Errorf("message must name «Дом», got %q", ve.Message)
	}
	if !strings.Contains(ve.Message, "Квартира") {
		t.Errorf("message must name «Квартира», got %q", ve.Message)
	}
	if strings.Contains(ve.Message, "ЖК") || strings.Contains(ve.Message, "Жилой комплекс") {
		t.Errorf("message must not mention the complex when it is selected, got %q", ve.Message)
	}
	if len(ve.Details) != 2 {
		t.Errorf("expected 2 details, got %d", len(ve.Details))
	}
}

func TestCanAdvance_AddressRequiresComplexInComplexMode(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)
	draft.Address.ComplexID = nil

	err := CanAdvance(StepAddress, draft, AddressByComplex, testNow)
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Message, "Жилой комплекс") {
		t.Errorf("expected complex to be named, got %q", ve.Message)
	}
}

func TestCanAdvance_AddressStreetModeIgnoresComplex(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)
	draft.Address.ComplexID = nil
	draft.Address.Street = "Ленина 10"

	if err := CanAdvance(StepAddress, draft, AddressByStreet, testNow); err != nil {
		t.Errorf("street mode with a street must pass, got %v", err)
	}

	draft.Address.Street = "  "
	err := CanAdvance(StepAddress, draft, AddressByStreet, testNow)
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Message, "Улица") {
		t.Errorf("expected street to be named, got %q", ve.Message)
	}
}

func TestCanAdvance_TimeRequiresSelection(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)

	err := CanAdvance(StepTime, draft, AddressByComplex, testNow)
	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Message, "Время вывоза") {
		t.Errorf("expected time slot to be named, got %q", ve.Message)
	}

	draft.SelectSlot(domain.SlotEvening)
	if err := CanAdvance(StepTime, draft, AddressByComplex, testNow); err != nil {
		t.Errorf("selected slot must pass, got %v", err)
	}
}

func TestCanAdvance_TimeRejectsPastDate(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)
	draft.SelectSlot(domain.SlotMorning)
	draft.DeliveryDate = testNow.AddDate(0, 0, -1)

	if err := CanAdvance(StepTime, draft, AddressByComplex, testNow); err == nil {
		t.Error("a date before today must be rejected")
	}
}

func TestCanAdvance_UrgentBypassesDateValidation(t *testing.T) {
	draft := completeAddressDraft(domain.TariffSingle)
	draft.DeliveryDate = testNow.AddDate(0, 0, -5)
	draft.SelectUrgent(testNow)

	if err := CanAdvance(StepTime, draft, AddressByComplex, testNow); err != nil {
		t.Errorf("urgent must bypass date validation, got %v", err)
	}
	if !draft.DeliveryDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("urgent must force today, got %v", draft.DeliveryDate)
	}
}

func TestCanAdvance_VolumeAndConfirmAlwaysPass(t *testing.T) {
	draft := domain.NewOrderDraft(domain.TariffMonthly, testNow)

	if err := CanAdvance(StepVolume, draft, AddressByComplex, testNow); err != nil {
		t.Errorf("volume step must always pass, got %v", err)
	}
	if err := CanAdvance(StepConfirm, draft, AddressByComplex, testNow); err != nil {
		t.Errorf("confirm step must always pass structurally, got %v", err)
	}
}
