package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/casebook/internal/attribution"
	"github.com/phrazzld/casebook/internal/domain"
	"github.com/phrazzld/casebook/internal/events"
	"github.com/phrazzld/casebook/internal/platform/logger"
	"github.com/phrazzld/casebook/internal/registry"
	"github.com/phrazzld/casebook/internal/store"
)

// OptionsSource supplies configured option lists by key. *registry.Registry
// satisfies it.
type OptionsSource interface {
	Options(ctx context.Context, key string) ([]string, error)
}

// PracticalSupportService logs practical support against patients.
type PracticalSupportService interface {
	// Create logs a new entry for a patient.
	Create(ctx context.Context, patientID uuid.UUID, params domain.PracticalSupportParams) (*domain.PracticalSupport, error)

	// Update replaces the editable fields of an entry.
	Update(ctx context.Context, id uuid.UUID, params domain.PracticalSupportParams) (*domain.PracticalSupport, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id uuid.UUID) error

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.PracticalSupport, error)

	// ListForPatient returns a patient's entries, oldest first.
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.PracticalSupport, error)

	// SupportTypes returns the selectable support types.
	SupportTypes(ctx context.Context) ([]string, error)

	// Sources returns the selectable sources: the configured external
	// pledge sources followed by the fixed sources.
	Sources(ctx context.Context) ([]string, error)
}

type practicalSupportServiceImpl struct {
	repo         store.PracticalSupportStore
	options      OptionsSource
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewPracticalSupportService creates a PracticalSupportService.
// It returns an error if any of the required dependencies are nil.
func NewPracticalSupportService(
	repo store.PracticalSupportStore,
	options OptionsSource,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (PracticalSupportService, error) {
	if repo == nil {
		return nil, &PracticalSupportServiceError{Operation: "create_service", Message: "repo cannot be nil"}
	}
	if options == nil {
		return nil, &PracticalSupportServiceError{Operation: "create_service", Message: "options cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &PracticalSupportServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &practicalSupportServiceImpl{
		repo:         repo,
		options:      options,
		eventEmitter: eventEmitter,
		logger:       logger.With(slog.String("component", "practical_support_service")),
	}, nil
}

// Create implements PracticalSupportService.
func (s *practicalSupportServiceImpl) Create(
	ctx context.Context,
	patientID uuid.UUID,
	params domain.PracticalSupportParams,
) (*domain.PracticalSupport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	actor := attribution.ActorFromContext(ctx)

	ps, err := domain.NewPracticalSupport(patientID, params, actor)
	if err != nil {
		log.Warn("practical support failed validation", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.checkOptions(ctx, ps); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, ps); err != nil {
		return nil, NewPracticalSupportServiceError("create", "failed to save practical support", err)
	}

	log.Info("practical support created",
		slog.String("practical_support_id", ps.ID.String()),
		slog.String("patient_id", patientID.String()),
		slog.String("actor", actor))

	event := domain.NewAuditEvent(domain.AuditCreate, domain.EntityPracticalSupport, ps.ID, actor,
		nil, ps.AuditAttributes())
	return ps, s.emit(ctx, "create", event)
}

// Update implements PracticalSupportService.
func (s *practicalSupportServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	params domain.PracticalSupportParams,
) (*domain.PracticalSupport, error) {
	actor := attribution.ActorFromContext(ctx)

	ps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewPracticalSupportServiceError("update", "failed to load practical support", err)
	}

	original := ps.AuditAttributes()
	ps.Apply(params, actor)
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkOptions(ctx, ps); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ps); err != nil {
		return nil, NewPracticalSupportServiceError("update", "failed to save practical support", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("practical support updated",
		slog.String("practical_support_id", ps.ID.String()),
		slog.String("actor", actor))

	event := domain.NewAuditEvent(domain.AuditUpdate, domain.EntityPracticalSupport, ps.ID, actor,
		original, ps.AuditAttributes())
	return ps, s.emit(ctx, "update", event)
}

// Delete implements PracticalSupportService.
func (s *practicalSupportServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	actor := attribution.ActorFromContext(ctx)

	ps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return NewPracticalSupportServiceError("delete", "failed to load practical support", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return NewPracticalSupportServiceError("delete", "failed to delete practical support", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("practical support deleted",
		slog.String("practical_support_id", id.String()),
		slog.String("actor", actor))

	event := domain.NewAuditEvent(domain.AuditDestroy, domain.EntityPracticalSupport, id, actor,
		ps.AuditAttributes(), nil)
	return s.emit(ctx, "delete", event)
}

// Get implements PracticalSupportService.
func (s *practicalSupportServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.PracticalSupport, error) {
	ps, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewPracticalSupportServiceError("get", "failed to retrieve practical support", err)
	}
	return ps, nil
}

// ListForPatient implements PracticalSupportService.
func (s *practicalSupportServiceImpl) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.PracticalSupport, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, NewPracticalSupportServiceError("list", "failed to list practical support", err)
	}
	return list, nil
}

// SupportTypes implements PracticalSupportService.
func (s *practicalSupportServiceImpl) SupportTypes(ctx context.Context) ([]string, error) {
	types, err := s.options.Options(ctx, registry.KeyPracticalSupport)
	if err != nil {
		return nil, NewPracticalSupportServiceError("support_types", "failed to read support types", err)
	}
	return types, nil
}

// Sources implements PracticalSupportService.
func (s *practicalSupportServiceImpl) Sources(ctx context.Context) ([]string, error) {
	pledgeSources, err := s.options.Options(ctx, registry.KeyExternalPledgeSource)
	if err != nil {
		return nil, NewPracticalSupportServiceError("sources", "failed to read sources", err)
	}
	return append(pledgeSources, domain.FixedPracticalSupportSources...), nil
}

// checkOptions verifies that the entry's support type and source are among
// the configured choices. A matching source is stored with its configured
// spelling.
func (s *practicalSupportServiceImpl) checkOptions(ctx context.Context, ps *domain.PracticalSupport) error {
	types, err := s.SupportTypes(ctx)
	if err != nil {
		return err
	}
	sources, err := s.Sources(ctx)
	if err != nil {
		return err
	}

	ve := &domain.ValidationError{}
	if _, ok := matchOption(types, ps.SupportType); !ok {
		ve.Add("support_type", domain.MsgNotIncluded)
	}
	if canonical, ok := matchOption(sources, ps.Source); ok {
		ps.Source = canonical
	} else {
		ve.Add("source", domain.MsgNotIncluded)
	}

	if ve.HasErrors() {
		logger.FromContextOrDefault(ctx, s.logger).Warn("practical support option not configured",
			slog.String("support_type", ps.SupportType),
			slog.String("source", ps.Source))
		return ve
	}
	return nil
}

func matchOption(options []string, value string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), value) {
			return o, true
		}
	}
	return "", false
}

func (s *practicalSupportServiceImpl) emit(ctx context.Context, operation string, event *domain.AuditEvent) error {
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to emit practical support event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return NewPracticalSupportServiceError(operation, "failed to emit audit event", err)
	}
	return nil
}

// FailureMessage renders err the way it is shown to a case manager, e.g.
// "Practical support failed to save: Support type can't be blank".
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if ve, ok := domain.AsValidationError(err); ok {
		return "Practical support failed to save: " + strings.Join(ve.FullMessages(), ", ")
	}
	if errors.Is(err, ErrPracticalSupportNotFound) {
		return "Practical support not found"
	}
	var se *PracticalSupportServiceError
	if errors.As(err, &se) {
		return fmt.Sprintf("Practical support failed to %s: %v", operationVerb(se.Operation), se.Err)
	}
	return fmt.Sprintf("Practical support failed: %v", err)
}

func operationVerb(operation string) string {
	switch operation {
	case "create", "update":
		return "save"
	case "delete":
		return "delete"
	default:
		return "load"
	}
}
