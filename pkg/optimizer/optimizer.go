package optimizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/arnavshah/roster-optimizer/pkg/scheduler"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidInput marks a run request the caller must fix
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream marks a failed read of the roster or existing schedules
	ErrUpstream = errors.New("upstream read failed")
)

// Schedule row constants for entries created by Apply
const (
	ScheduleTypeRecurring = "recurring"
	AppliedNote           = "Created by schedule optimizer"
)

// Repository is the storage the optimizer reads from and applies to
type Repository interface {
	LoadRoster(ctx context.Context) (*models.Roster, error)
	// LoadExistingSchedules returns active recurring entries that belong to
	// any of the caregivers or any of the clients.
	LoadExistingSchedules(ctx context.Context, caregiverIDs, clientIDs []string) ([]models.ScheduleEntry, error)
	InsertSchedule(ctx context.Context, entry NewSchedule) error
}

// NewSchedule is the persisted form of an applied proposal
type NewSchedule struct {
	ID           string
	CaregiverID  string
	ClientID     string
	ScheduleType string
	DayOfWeek    int
	StartTime    string
	EndTime      string
	IsActive     bool
	Notes        string
	ProposalKey  string
}

// Service wraps the scheduler with a dry-run and an explicit apply
type Service struct {
	repo   Repository
	opts   scheduler.Options
	logger zerolog.Logger
	newID  func() string
}

// New creates a new optimizer service
func New(repo Repository, opts scheduler.Options, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		opts:   opts,
		logger: logger.With().Str("component", "optimizer").Logger(),
		newID:  uuid.NewString,
	}
}

// Roster returns the snapshot of active caregivers and clients
func (s *Service) Roster(ctx context.Context) (*models.Roster, error) {
	roster, err := s.repo.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load roster: %w", ErrUpstream, err)
	}
	return roster, nil
}

// Run proposes new assignments without writing anything
func (s *Service) Run(ctx context.Context, req models.RunRequest) (*models.RunResult, error) {
	if err := ValidateRunRequest(req); err != nil {
		return nil, err
	}

	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}

	caregivers, clients, err := mergeRoster(req, roster)
	if err != nil {
		return nil, err
	}

	caregiverIDs := make([]string, len(caregivers))
	for i, cg := range caregivers {
		caregiverIDs[i] = cg.ID
	}
	clientIDs := make([]string, len(clients))
	for i, cl := range clients {
		clientIDs[i] = cl.ID
	}

	existing, err := s.repo.LoadExistingSchedules(ctx, caregiverIDs, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load existing schedules: %w", ErrUpstream, err)
	}

	result := scheduler.Optimize(caregivers, clients, existing, s.opts)

	s.logger.Info().
		Int("caregivers", len(caregivers)).
		Int("clients", len(clients)).
		Int("existing", len(existing)).
		Int("proposals", result.Summary.TotalProposals).
		Int("unscheduled", result.Summary.TotalUnscheduled).
		Msg("optimization run complete")

	return result, nil
}

// Apply persists each proposal as a live schedule entry. Proposals are
// written independently; failures are collected, never returned as an error.
// Replaying the same proposals creates duplicate rows.
func (s *Service) Apply(ctx context.Context, proposals []models.Proposal) *models.ApplyResult {
	result := &models.ApplyResult{ErrorDetails: []models.ApplyError{}}

	for _, p := range proposals {
		if err := s.applyOne(ctx, p); err != nil {
			s.logger.Warn().Err(err).
				Str("caregiver_id", p.CaregiverID).
				Str("client_id", p.ClientID).
				Int("day", p.DayOfWeek).
				Msg("proposal not applied")
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, models.ApplyError{Proposal: p, Error: err.Error()})
			continue
		}
		result.Created++
	}

	result.Success = result.Errors == 0
	s.logger.Info().Int("created", result.Created).Int("errors", result.Errors).Msg("proposals applied")
	return result
}

func (s *Service) applyOne(ctx context.Context, p models.Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateProposal(p); err != nil {
		return err
	}
	start := scheduler.NormalizeTime(p.StartTime)
	end := scheduler.NormalizeTime(p.EndTime)

	return s.repo.InsertSchedule(ctx, NewSchedule{
		ID:           s.newID(),
		CaregiverID:  p.CaregiverID,
		ClientID:     p.ClientID,
		ScheduleType: ScheduleTypeRecurring,
		DayOfWeek:    p.DayOfWeek,
		StartTime:    start,
		EndTime:      end,
		IsActive:     true,
		Notes:        AppliedNote,
		ProposalKey:  scheduler.ProposalKey(p.CaregiverID, p.ClientID, p.DayOfWeek, start, end),
	})
}

// mergeRoster joins the request's targets with names and preference lists
// from the roster, keeping request order.
func mergeRoster(req models.RunRequest, roster *models.Roster) ([]models.Caregiver, []models.Client, error) {
	rosterCaregivers := make(map[string]models.RosterCaregiver, len(roster.Caregivers))
	for _, cg := range roster.Caregivers {
		rosterCaregivers[cg.ID] = cg
	}
	rosterClients := make(map[string]models.RosterClient, len(roster.Clients))
	for _, cl := range roster.Clients {
		rosterClients[cl.ID] = cl
	}

	caregivers := make([]models.Caregiver, 0, len(req.Caregivers))
	for _, target := range req.Caregivers {
		cg, ok := rosterCaregivers[target.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: caregiver %s is not an active caregiver", ErrInvalidInput, target.ID)
		}
		caregivers = append(caregivers, models.Caregiver{
			ID:          cg.ID,
			Name:        cg.Name,
			TargetHours: target.TargetHours,
		})
	}

	clients := make([]models.Client, 0, len(req.Clients))
	for _, demand := range req.Clients {
		cl, ok := rosterClients[demand.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: client %s is not an active client", ErrInvalidInput, demand.ID)
		}
		clients = append(clients, models.Client{
			ID:                  cl.ID,
			Name:                cl.Name,
			HoursPerWeek:        demand.HoursPerWeek,
			VisitsPerWeek:       demand.VisitsPerWeek,
			PreferredCaregivers: append([]string(nil), cl.PreferredCaregivers...),
			ExcludedCaregivers:  append([]string(nil), cl.ExcludedCaregivers...),
		})
	}

	return caregivers, clients, nil
}
