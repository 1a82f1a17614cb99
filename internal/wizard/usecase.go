package wizard

import (
	"context"
	"time"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
	"ecovoz/internal/infrastructure/backend"
	"ecovoz/internal/pricing"

	"go.uber.org/zap"
)

// UseCase owns the wizard operations: start, mutate, advance, retreat,
// quote. One session per wizard instance; all draft access goes through
// the session lock.
type UseCase struct {
	store        *Store
	gateway      BackendGateway
	orchestrator *Orchestrator
	defaultRates pricing.RateTable
	addressMode  AddressMode
	logger       *zap.Logger
	now          func() time.Time
}

func NewUseCase(
	store *Store,
	gateway BackendGateway,
	orchestrator *Orchestrator,
	defaultRates pricing.RateTable,
	addressMode AddressMode,
	logger *zap.Logger,
) *UseCase {
	return &UseCase{
		store:        store,
		gateway:      gateway,
		orchestrator: orchestrator,
		defaultRates: defaultRates,
		addressMode:  addressMode,
		logger:       logger,
		now:          time.Now,
	}
}

// StartJanitor launches background eviction of idle sessions.
func (u *UseCase) StartJanitor(ctx context.Context) {
	u.store.StartJanitor(ctx)
}

type DraftView struct {
	ComplexID    *int64 `json:"complexId,omitempty"`
	Street       string `json:"street,omitempty"`
	Building     string `json:"building"`
	Entrance     string `json:"entrance"`
	Floor        string `json:"floor"`
	Apartment    string `json:"apartment"`
	Intercom     string `json:"intercom"`
	Slot         *int   `json:"slot,omitempty"`
	Urgent       bool   `json:"urgent"`
	Date         string `json:"date"`
	BagsCount    int    `json:"bagsCount"`
	DurationDays int    `json:"durationDays"`
	Frequency    string `json:"frequency"`
	PickupMethod string `json:"pickupMethod"`
	Comment      string `json:"comment,omitempty"`
	SaveAddress  bool   `json:"saveAddress"`
}

type SessionState struct {
	SessionID string              `json:"sessionId"`
	Tariff    string              `json:"tariff"`
	Steps     []string            `json:"steps"`
	StepIndex int                 `json:"stepIndex"`
	Step      string              `json:"step"`
	Exit      bool                `json:"exit,omitempty"`
	Draft     DraftView           `json:"draft"`
	Quote     domain.DisplayQuote `json:"quote"`
	// UrgentPriceMinor is the flat urgent fee, shown next to the urgent
	// option on the time step.
	UrgentPriceMinor int64             `json:"urgentPriceMinor"`
	Complexes        []backend.Complex `json:"complexes,omitempty"`
}

// AdvanceResult carries either the next step state or, after the confirm
// step, the submission outcome.
type AdvanceResult struct {
	State      *SessionState     `json:"state,omitempty"`
	Submission *SubmissionResult `json:"submission,omitempty"`
}

// DraftPatch is a partial draft mutation; nil fields are untouched.
type DraftPatch struct {
	ComplexID    *int64  `json:"complexId"`
	Street       *string `json:"street"`
	Building     *string `json:"building"`
	Entrance     *string `json:"entrance"`
	Floor        *string `json:"floor"`
	Apartment    *string `json:"apartment"`
	Intercom     *string `json:"intercom"`
	Slot         *int    `json:"slot"`
	Urgent       *bool   `json:"urgent"`
	Date         *string `json:"date"`
	BagsCount    *int    `json:"bagsCount"`
	DurationDays *int    `json:"durationDays"`
	Frequency    *string `json:"frequency"`
	PickupMethod *string `json:"pickupMethod"`
	Comment      *string `json:"comment"`
	SaveAddress  *bool   `json:"saveAddress"`
}

// Start opens a wizard session for the given tariff: loads reference data
// (fail-soft), builds the session's rate table and prefills the default
// saved address.
func (u *UseCase) Start(ctx context.Context, token, tariffStr string) (*SessionState, error) {
	tariff, ok := domain.ParseTariff(tariffStr)
	if !ok {
		return nil, apperrors.NewValidationError(
			"Неизвестный тариф",
			apperrors.ValidationDetail{Field: "tariff", Message: "tariff must be one of: single, trial, monthly"},
		)
	}

	ref := LoadRefData(ctx, u.gateway, token, u.logger)
	engine := pricing.NewEngine(u.defaultRates.MergeTariffs(ref.Tariffs))

	draft := domain.NewOrderDraft(tariff, u.now())
	if saved, ok := ref.DefaultAddress(); ok {
		draft.Address = domain.Address{
			ComplexID: saved.ComplexID,
			Street:    saved.Street,
			Building:  saved.Building,
			Entrance:  saved.Entrance,
			Floor:     saved.Floor,
			Apartment: saved.Apartment,
			Intercom:  saved.Intercom,
		}
	}

	s := u.store.Create(token, draft, StepsFor(tariff), ref, engine)
	u.logger.Info("wizard session started",
		zap.String("sessionId", s.ID),
		zap.String("tariff", string(tariff)),
		zap.Int("complexes", len(ref.Complexes)),
		zap.Bool("balanceLoaded", ref.BalanceLoaded))

	s.Lock()
	defer s.Unlock()
	return u.stateLocked(s), nil
}

func (u *UseCase) State(sessionID string) (*SessionState, error) {
	s, err := u.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()
	return u.stateLocked(s), nil
}

func (u *UseCase) Quote(sessionID string) (domain.DisplayQuote, error) {
	s, err := u.store.Get(sessionID)
	if err != nil {
		return domain.DisplayQuote{}, err
	}
	s.Lock()
	defer s.Unlock()
	return u.quoteLocked(s), nil
}

// Update applies a partial draft mutation. Mutations are rejected while a
// submission is in flight.
func (u *UseCase) Update(sessionID string, patch DraftPatch) (*SessionState, error) {
	s, err := u.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if s.submitting {
		return nil, apperrors.NewConflictError("Заказ уже оформляется")
	}
	if err := u.applyPatch(s.Draft, patch); err != nil {
		return nil, err
	}
	return u.stateLocked(s), nil
}

// Advance validates the current step and moves forward. On the confirm
// step it runs the submission orchestrator instead; a successful
// submission discards the session.
func (u *UseCase) Advance(ctx context.Context, sessionID string) (*AdvanceResult, error) {
	s, err := u.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.Lock()
	step := s.CurrentStep()
	if step != StepConfirm {
		if err := CanAdvance(step, s.Draft, u.addressMode, u.now()); err != nil {
			s.Unlock()
			return nil, err
		}
		s.StepIndex = Advance(s.StepIndex, s.Steps)
		state := u.stateLocked(s)
		s.Unlock()
		return &AdvanceResult{State: state}, nil
	}

	if !s.BeginSubmit() {
		s.Unlock()
		return nil, apperrors.NewConflictError("Заказ уже оформляется")
	}
	s.Unlock()

	result, err := u.orchestrator.Submit(ctx, s)
	if err != nil {
		// Stay on confirm with the draft intact so the user can retry.
		s.Lock()
		s.EndSubmit()
		s.Unlock()
		return nil, err
	}

	u.store.Delete(s.ID)
	u.logger.Info("wizard session submitted",
		zap.String("sessionId", s.ID), zap.String("outcome", string(result.Outcome)))
	return &AdvanceResult{Submission: result}, nil
}

// Retreat moves one step back; at the first step it reports that the
// client should leave the wizard.
func (u *UseCase) Retreat(sessionID string) (*SessionState, error) {
	s, err := u.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	next, exit := Retreat(s.StepIndex)
	s.StepIndex = next
	state := u.stateLocked(s)
	state.Exit = exit
	return state, nil
}

func (u *UseCase) applyPatch(draft *domain.OrderDraft, p DraftPatch) error {
	if p.ComplexID != nil {
		id := *p.ComplexID
		draft.Address.ComplexID = &id
	}
	if p.Street != nil {
		draft.Address.Street = *p.Street
	}
	if p.Building != nil {
		draft.Address.Building = *p.Building
	}
	if p.Entrance != nil {
		draft.Address.Entrance = *p.Entrance
	}
	if p.Floor != nil {
		draft.Address.Floor = *p.Floor
	}
	if p.Apartment != nil {
		draft.Address.Apartment = *p.Apartment
	}
	if p.Intercom != nil {
		draft.Address.Intercom = *p.Intercom
	}

	if p.Urgent != nil {
		if *p.Urgent {
			draft.SelectUrgent(u.now())
		} else if draft.Time.Urgent {
			draft.Time = domain.TimeSelection{}
		}
	}
	if p.Slot != nil {
		id := domain.SlotID(*p.Slot)
		if !domain.ValidSlot(id) {
			return apperrors.NewValidationError(
				"Неверный слот времени",
				apperrors.ValidationDetail{Field: "slot", Message: "slot must be between 1 and 4"},
			)
		}
		draft.SelectSlot(id)
	}
	if p.Date != nil {
		if draft.Time.Urgent {
			// Urgent always means today; a date override is ignored.
			return apperrors.NewValidationError(
				"Срочный вывоз выполняется сегодня",
				apperrors.ValidationDetail{Field: "date", Message: "date cannot be changed for urgent pickups"},
			)
		}
		d, err := time.ParseInLocation("2006-01-02", *p.Date, u.now().Location())
		if err != nil {
			return apperrors.NewValidationError(
				"Неверный формат даты",
				apperrors.ValidationDetail{Field: "date", Message: "date must be YYYY-MM-DD"},
			)
		}
		draft.DeliveryDate = d
	}

	if p.BagsCount != nil {
		v := *p.BagsCount
		if v < 1 {
			v = 1
		}
		if v > pricing.MaxBags {
			v = pricing.MaxBags
		}
		draft.Volume.BagsCount = v
	}
	if p.DurationDays != nil {
		draft.Volume.DurationDays = nearestDuration(*p.DurationDays)
	}
	if p.Frequency != nil {
		switch domain.Frequency(*p.Frequency) {
		case domain.FrequencyDaily, domain.FrequencyEveryOtherDay, domain.FrequencyTwiceWeek:
			draft.Volume.Frequency = domain.Frequency(*p.Frequency)
		default:
			return apperrors.NewValidationError(
				"Неверная периодичность",
				apperrors.ValidationDetail{Field: "frequency", Message: "frequency must be daily, every_other_day or twice_week"},
			)
		}
	}
	if p.PickupMethod != nil {
		switch domain.PickupMethod(*p.PickupMethod) {
		case domain.PickupDoor, domain.PickupHand:
			draft.PickupMethod = domain.PickupMethod(*p.PickupMethod)
		default:
			return apperrors.NewValidationError(
				"Неверный способ передачи",
				apperrors.ValidationDetail{Field: "pickupMethod", Message: "pickupMethod must be door or hand"},
			)
		}
	}
	if p.Comment != nil {
		draft.Comment = *p.Comment
	}
	if p.SaveAddress != nil {
		draft.SaveAddress = *p.SaveAddress
	}
	return nil
}

var durations = []int{14, 30, 60}

func nearestDuration(v int) int {
	best := durations[0]
	for _, d := range durations {
		if abs(v-d) < abs(v-best) {
			best = d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (u *UseCase) stateLocked(s *Session) *SessionState {
	steps := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = string(st)
	}

	var slot *int
	if s.Draft.Time.Slot != nil {
		v := int(*s.Draft.Time.Slot)
		slot = &v
	}

	state := &SessionState{
		SessionID: s.ID,
		Tariff:    string(s.Draft.TariffID),
		Steps:     steps,
		StepIndex: s.StepIndex,
		Step:      string(s.CurrentStep()),
		Draft: DraftView{
			ComplexID:    s.Draft.Address.ComplexID,
			Street:       s.Draft.Address.Street,
			Building:     s.Draft.Address.Building,
			Entrance:     s.Draft.Address.Entrance,
			Floor:        s.Draft.Address.Floor,
			Apartment:    s.Draft.Address.Apartment,
			Intercom:     s.Draft.Address.Intercom,
			Slot:         slot,
			Urgent:       s.Draft.Time.Urgent,
			Date:         s.Draft.DeliveryDate.Format("2006-01-02"),
			BagsCount:    s.Draft.Volume.BagsCount,
			DurationDays: s.Draft.Volume.DurationDays,
			Frequency:    string(s.Draft.Volume.Frequency),
			PickupMethod: string(s.Draft.PickupMethod),
			Comment:      s.Draft.Comment,
			SaveAddress:  s.Draft.SaveAddress,
		},
		Quote:            u.quoteLocked(s),
		UrgentPriceMinor: s.Engine.Rates().UrgentPrice,
		Complexes:        s.Ref.Complexes,
	}
	return state
}

func (u *UseCase) quoteLocked(s *Session) domain.DisplayQuote {
	return s.Engine.Quote(s.Draft.TariffID, pricing.QuoteParams{
		Urgent:          s.Draft.Time.Urgent,
		BagsCount:       s.Draft.Volume.BagsCount,
		DurationDays:    s.Draft.Volume.DurationDays,
		Frequency:       s.Draft.Volume.Frequency,
		HasSubscription: s.Ref.HasActiveSubscription(),
	})
}
