package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	"github.com/riskibarqy/synced-sports/internal/domain/qualification"
	"github.com/riskibarqy/synced-sports/internal/domain/wage"
	"github.com/riskibarqy/synced-sports/internal/platform/id"
	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
)

const (
	// heldWindow widens the game interval when loading an official's
	// existing assignments for overlap scanning.
	heldWindow = 24 * time.Hour

	defaultValidationWorkers = 8
	maxBatchSize             = 500
)

type AssignInput struct {
	GameID     string
	OfficialID string
	Position   string
	Mode       assignment.PolicyMode
	ActorID    string
}

type AssignOutcome struct {
	Assignment assignment.Assignment
	Result     assignment.ValidationResult
}

type BatchResult struct {
	Index  int
	Input  AssignInput
	Result assignment.ValidationResult
	Err    error
}

type RankedCandidate struct {
	Official official.Official
	Result   assignment.ValidationResult
	// Distance is nil when no distance function is configured or the
	// distance could not be measured.
	Distance *float64
}

type AssignmentServiceOption func(*AssignmentService)

func WithAssignmentLogger(logger *logging.Logger) AssignmentServiceOption {
	return func(s *AssignmentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAssignmentMetrics(m *metrics.Manager) AssignmentServiceOption {
	return func(s *AssignmentService) {
		s.metrics = m
	}
}

func WithValidationWorkers(n int) AssignmentServiceOption {
	return func(s *AssignmentService) {
		if n > 0 {
			s.workers = n
		}
	}
}

type AssignmentService struct {
	officialRepo   official.Repository
	gameRepo       game.Repository
	assignmentRepo assignment.Repository
	validator      assignment.Validator
	distance       location.DistanceFunc
	idGen          id.Generator
	metrics        *metrics.Manager
	logger         *logging.Logger
	workers        int
	now            func() time.Time
}

func NewAssignmentService(
	officialRepo official.Repository,
	gameRepo game.Repository,
	assignmentRepo assignment.Repository,
	matrix qualification.Matrix,
	distance location.DistanceFunc,
	idGen id.Generator,
	opts ...AssignmentServiceOption,
) *AssignmentService {
	s := &AssignmentService{
		officialRepo:   officialRepo,
		gameRepo:       gameRepo,
		assignmentRepo: assignmentRepo,
		validator:      assignment.NewValidator(matrix, distance),
		distance:       distance,
		idGen:          idGen,
		logger:         logging.Default(),
		workers:        defaultValidationWorkers,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign validates a proposal and, unless rejected, persists it as a
// pending assignment with the wage stamped. A rejection is returned as
// *assignment.RejectionError alongside the outcome carrying the result.
func (s *AssignmentService) Assign(ctx context.Context, input AssignInput) (AssignOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Assign")
	defer span.End()

	input, err := normalizeAssignInput(input)
	if err != nil {
		return AssignOutcome{}, err
	}
	if err := authorizeActor(input); err != nil {
		return AssignOutcome{}, err
	}

	proposal, err := s.loadProposal(ctx, input)
	if err != nil {
		return AssignOutcome{}, err
	}

	result := s.validate(proposal)
	if result.Rejected() {
		s.logger.InfoContext(ctx, "assignment rejected",
			"game_id", input.GameID,
			"official_id", input.OfficialID,
			"position", input.Position,
			"mode", input.Mode.String(),
			"conflicts", len(result.Conflicts),
		)
		return AssignOutcome{Result: result}, &assignment.RejectionError{Result: result}
	}

	assignmentID, err := s.idGen.NewID()
	if err != nil {
		return AssignOutcome{}, fmt.Errorf("generate assignment id: %w", err)
	}

	now := s.now().UTC()
	item := assignment.Assignment{
		ID:             assignmentID,
		GameID:         proposal.Game.ID,
		OfficialID:     proposal.Official.ID,
		Position:       proposal.Position,
		Status:         assignment.StatusPending,
		Origin:         input.Mode.Origin(),
		CreatedBy:      input.ActorID,
		CalculatedWage: *result.CalculatedWage,
		WageMultiplier: result.Breakdown.Multiplier,
		WageReason:     proposal.Game.MultiplierReason,
		Warnings:       result.Warnings,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.assignmentRepo.Create(ctx, item, proposal.Game.PositionsNeeded); err != nil {
		if rejection, ok := assignment.RejectionFromStore(err, proposal.Game.ID); ok {
			s.metrics.ObserveDecision(input.Mode.String(), string(assignment.DecisionRejected))
			for _, c := range rejection.Result.Conflicts {
				s.metrics.ObserveConflict(string(c.Kind), c.Fatal)
			}
			s.logger.InfoContext(ctx, "assignment rejected",
				"game_id", input.GameID,
				"official_id", input.OfficialID,
				"position", input.Position,
				"mode", input.Mode.String(),
				"reason", "store constraint",
			)
			return AssignOutcome{Result: rejection.Result}, rejection
		}
		return AssignOutcome{}, fmt.Errorf("create assignment: %w", err)
	}

	s.logger.InfoContext(ctx, "assignment created",
		"assignment_id", item.ID,
		"game_id", item.GameID,
		"official_id", item.OfficialID,
		"position", item.Position,
		"origin", item.Origin,
		"wage", item.CalculatedWage,
		"warnings", len(item.Warnings),
	)

	return AssignOutcome{Assignment: item, Result: result}, nil
}

// Accept moves a pending assignment to accepted on behalf of its official.
func (s *AssignmentService) Accept(ctx context.Context, assignmentID, officialID string) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Accept")
	defer span.End()

	return s.transition(ctx, assignmentID, officialID, assignment.StatusAccepted, assignment.OriginSelf)
}

// Decline moves a pending assignment to declined, freeing the position.
func (s *AssignmentService) Decline(ctx context.Context, assignmentID, officialID string) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Decline")
	defer span.End()

	return s.transition(ctx, assignmentID, officialID, assignment.StatusDeclined, assignment.OriginSelf)
}

// Cancel is the administrative release of a pending or accepted assignment.
func (s *AssignmentService) Cancel(ctx context.Context, assignmentID, adminID string) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.Cancel")
	defer span.End()

	return s.transition(ctx, assignmentID, adminID, assignment.StatusCancelled, assignment.OriginAdmin)
}

func (s *AssignmentService) transition(
	ctx context.Context,
	assignmentID, actorID string,
	to assignment.Status,
	by assignment.Origin,
) (assignment.Assignment, error) {
	assignmentID = strings.TrimSpace(assignmentID)
	actorID = strings.TrimSpace(actorID)
	if assignmentID == "" || actorID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment id and actor id are required", ErrInvalidInput)
	}

	item, exists, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get assignment by id: %w", err)
	}
	if !exists {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment=%s", ErrNotFound, assignmentID)
	}
	if by == assignment.OriginSelf && item.OfficialID != actorID {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s belongs to another official", ErrForbidden, assignmentID)
	}
	if err := assignment.Transition(item.Status, to, by); err != nil {
		return assignment.Assignment{}, err
	}

	if to == assignment.StatusAccepted {
		g, err := s.getGame(ctx, item.GameID)
		if err != nil {
			return assignment.Assignment{}, err
		}
		if g.IsCancelled() {
			return assignment.Assignment{}, fmt.Errorf("%w: game=%s", assignment.ErrGameCancelled, g.ID)
		}
	}

	now := s.now().UTC()
	from := item.Status
	if err := s.assignmentRepo.UpdateStatus(ctx, item.ID, from, to, now); err != nil {
		return assignment.Assignment{}, fmt.Errorf("update assignment status: %w", err)
	}

	item.Status = to
	item.UpdatedAt = now

	s.logger.InfoContext(ctx, "assignment status changed",
		"assignment_id", item.ID,
		"game_id", item.GameID,
		"official_id", item.OfficialID,
		"from", from,
		"to", to,
		"actor_id", actorID,
	)

	if err := s.refreshGameStatus(ctx, item.GameID); err != nil {
		return assignment.Assignment{}, err
	}

	return item, nil
}

// refreshGameStatus recomputes the game status from accepted assignments.
func (s *AssignmentService) refreshGameStatus(ctx context.Context, gameID string) error {
	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return err
	}

	items, err := s.assignmentRepo.ListByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list assignments by game: %w", err)
	}

	accepted := 0
	for _, item := range items {
		if item.Status == assignment.StatusAccepted {
			accepted++
		}
	}

	status := game.DeriveStatus(g.PositionsNeeded, accepted, g.IsCancelled())
	if status == g.Status {
		return nil
	}
	if err := s.gameRepo.UpdateStatus(ctx, gameID, status); err != nil {
		return fmt.Errorf("update game status: %w", err)
	}

	s.logger.DebugContext(ctx, "game status changed", "game_id", gameID, "from", g.Status, "to", status)
	return nil
}

// ValidateBatch dry-runs proposals on a bounded worker pool. Results keep
// input order; a per-item failure is reported in BatchResult.Err.
func (s *AssignmentService) ValidateBatch(ctx context.Context, inputs []AssignInput) ([]BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.ValidateBatch")
	defer span.End()

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one proposal is required", ErrInvalidInput)
	}
	if len(inputs) > maxBatchSize {
		return nil, fmt.Errorf("%w: at most %d proposals per batch", ErrInvalidInput, maxBatchSize)
	}

	workerCount := min(s.workers, len(inputs))
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	results := make([]BatchResult, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			row := BatchResult{Index: i, Input: input}
			row.Result, row.Err = s.dryRun(ctx, input)
			results[i] = row
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit validation to worker pool: %w", err)
		}
	}
	wg.Wait()

	return results, nil
}

func (s *AssignmentService) dryRun(ctx context.Context, input AssignInput) (assignment.ValidationResult, error) {
	input, err := normalizeAssignInput(input)
	if err != nil {
		return assignment.ValidationResult{}, err
	}
	if err := authorizeActor(input); err != nil {
		return assignment.ValidationResult{}, err
	}
	proposal, err := s.loadProposal(ctx, input)
	if err != nil {
		return assignment.ValidationResult{}, err
	}
	return s.validate(proposal), nil
}

// RankCandidates evaluates every available official for a position in
// administrative mode. Viable candidates come first, then fewer warnings,
// then shorter travel.
func (s *AssignmentService) RankCandidates(ctx context.Context, gameID, position string) ([]RankedCandidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.RankCandidates")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	pos := game.NormalizePosition(position)
	if gameID == "" || pos == "" {
		return nil, fmt.Errorf("%w: game id and position are required", ErrInvalidInput)
	}

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	gameAssignments, err := s.assignmentRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list assignments by game: %w", err)
	}
	officials, err := s.officialRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available officials: %w", err)
	}
	if len(officials) == 0 {
		return []RankedCandidate{}, nil
	}

	p := pool.NewWithResults[RankedCandidate]().
		WithContext(ctx).
		WithMaxGoroutines(s.workers)
	for _, o := range officials {
		p.Go(func(ctx context.Context) (RankedCandidate, error) {
			held, err := s.assignmentRepo.ListHeldByOfficial(ctx, o.ID, g.StartAt.Add(-heldWindow), g.EndAt.Add(heldWindow))
			if err != nil {
				return RankedCandidate{}, fmt.Errorf("list held assignments for official %s: %w", o.ID, err)
			}

			candidate := RankedCandidate{
				Official: o,
				Result: s.validate(assignment.Proposal{
					Official:        o,
					Game:            g,
					Position:        pos,
					Mode:            assignment.Administrative,
					Held:            held,
					GameAssignments: gameAssignments,
				}),
			}
			if s.distance != nil {
				if d, err := s.distance(o.Home, g.Location); err == nil {
					candidate.Distance = &d
				}
			}
			return candidate, nil
		})
	}

	ranked, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Result.Rejected() != b.Result.Rejected() {
			return !a.Result.Rejected()
		}
		if len(a.Result.Warnings) != len(b.Result.Warnings) {
			return len(a.Result.Warnings) < len(b.Result.Warnings)
		}
		if da, db := distanceKey(a.Distance), distanceKey(b.Distance); da != db {
			return da < db
		}
		return a.Official.ID < b.Official.ID
	})

	return ranked, nil
}

func distanceKey(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}

// RecalculateWage re-stamps an active assignment's wage from the current
// official base wage and game multiplier.
func (s *AssignmentService) RecalculateWage(ctx context.Context, assignmentID string) (assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.RecalculateWage")
	defer span.End()

	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment id is required", ErrInvalidInput)
	}

	item, exists, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("get assignment by id: %w", err)
	}
	if !exists {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment=%s", ErrNotFound, assignmentID)
	}
	if !item.Status.Active() {
		return assignment.Assignment{}, fmt.Errorf("%w: assignment %s is %s", ErrInvalidInput, item.ID, item.Status)
	}

	g, err := s.getGame(ctx, item.GameID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	o, err := s.getOfficial(ctx, item.OfficialID)
	if err != nil {
		return assignment.Assignment{}, err
	}

	return s.restamp(ctx, item, o, g)
}

// ChangeMultiplier updates a game's wage multiplier and re-stamps every
// active assignment on it.
func (s *AssignmentService) ChangeMultiplier(ctx context.Context, gameID string, multiplier float64, reason string) ([]assignment.Assignment, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.ChangeMultiplier")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return nil, fmt.Errorf("%w: multiplier must be a positive number", ErrInvalidInput)
	}

	g, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if err := s.gameRepo.UpdateMultiplier(ctx, gameID, multiplier, reason); err != nil {
		return nil, fmt.Errorf("update game multiplier: %w", err)
	}
	g.WageMultiplier = multiplier
	g.MultiplierReason = reason

	if wage.NeedsReason(multiplier, reason) {
		s.logger.WarnContext(ctx, "wage multiplier changed without reason", "game_id", gameID, "multiplier", multiplier)
	}

	items, err := s.assignmentRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list assignments by game: %w", err)
	}

	out := make([]assignment.Assignment, 0, len(items))
	for _, item := range items {
		if !item.Status.Active() {
			continue
		}
		o, err := s.getOfficial(ctx, item.OfficialID)
		if err != nil {
			return nil, err
		}
		updated, err := s.restamp(ctx, item, o, g)
		if err != nil {
			return nil, err
		}
		out = append(out, updated)
	}

	return out, nil
}

func (s *AssignmentService) restamp(ctx context.Context, item assignment.Assignment, o official.Official, g game.Game) (assignment.Assignment, error) {
	breakdown := wage.WageBreakdown(o.BaseWage, g.WageMultiplier, g.MultiplierReason)
	now := s.now().UTC()
	if err := s.assignmentRepo.UpdateWage(ctx, item.ID, breakdown.FinalWage, breakdown.Multiplier, g.MultiplierReason, now); err != nil {
		return assignment.Assignment{}, fmt.Errorf("update assignment wage: %w", err)
	}

	s.logger.InfoContext(ctx, "assignment wage recalculated",
		"assignment_id", item.ID,
		"previous", item.CalculatedWage,
		"wage", breakdown.FinalWage,
		"calculation", breakdown.Calculation,
	)

	item.CalculatedWage = breakdown.FinalWage
	item.WageMultiplier = breakdown.Multiplier
	item.WageReason = g.MultiplierReason
	item.UpdatedAt = now
	return item, nil
}

func (s *AssignmentService) loadProposal(ctx context.Context, input AssignInput) (assignment.Proposal, error) {
	g, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return assignment.Proposal{}, err
	}
	o, err := s.getOfficial(ctx, input.OfficialID)
	if err != nil {
		return assignment.Proposal{}, err
	}

	held, err := s.assignmentRepo.ListHeldByOfficial(ctx, o.ID, g.StartAt.Add(-heldWindow), g.EndAt.Add(heldWindow))
	if err != nil {
		return assignment.Proposal{}, fmt.Errorf("list held assignments: %w", err)
	}
	gameAssignments, err := s.assignmentRepo.ListByGame(ctx, g.ID)
	if err != nil {
		return assignment.Proposal{}, fmt.Errorf("list assignments by game: %w", err)
	}

	return assignment.Proposal{
		Official:        o,
		Game:            g,
		Position:        game.NormalizePosition(input.Position),
		Mode:            input.Mode,
		Held:            held,
		GameAssignments: gameAssignments,
	}, nil
}

func (s *AssignmentService) validate(p assignment.Proposal) assignment.ValidationResult {
	start := s.now()
	result := s.validator.Validate(p)
	s.metrics.ObserveValidation(s.now().Sub(start))
	s.metrics.ObserveDecision(p.Mode.String(), string(result.Decision))
	for _, c := range result.Conflicts {
		s.metrics.ObserveConflict(string(c.Kind), c.Fatal)
	}
	return result
}

func (s *AssignmentService) getGame(ctx context.Context, gameID string) (game.Game, error) {
	g, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *AssignmentService) getOfficial(ctx context.Context, officialID string) (official.Official, error) {
	o, exists, err := s.officialRepo.GetByID(ctx, officialID)
	if err != nil {
		return official.Official{}, fmt.Errorf("get official by id: %w", err)
	}
	if !exists {
		return official.Official{}, fmt.Errorf("%w: official=%s", ErrNotFound, officialID)
	}
	return o, nil
}

func normalizeAssignInput(input AssignInput) (AssignInput, error) {
	input.GameID = strings.TrimSpace(input.GameID)
	input.OfficialID = strings.TrimSpace(input.OfficialID)
	input.Position = string(game.NormalizePosition(input.Position))
	input.ActorID = strings.TrimSpace(input.ActorID)

	var missing []string
	if input.GameID == "" {
		missing = append(missing, "game_id")
	}
	if input.OfficialID == "" {
		missing = append(missing, "official_id")
	}
	if input.Position == "" {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		return AssignInput{}, fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if input.Mode != assignment.SelfService && input.Mode != assignment.Administrative {
		return AssignInput{}, fmt.Errorf("%w: unknown policy mode", ErrInvalidInput)
	}

	return input, nil
}

// authorizeActor applies the ownership rule shared by Assign and its dry run.
func authorizeActor(input AssignInput) error {
	if input.ActorID == "" {
		return fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if input.Mode == assignment.SelfService && input.ActorID != input.OfficialID {
		return fmt.Errorf("%w: officials may only self-assign", ErrForbidden)
	}
	return nil
}

// IsRejection reports whether err is a validator or store rejection and
// returns its result.
func IsRejection(err error) (assignment.ValidationResult, bool) {
	var rejection *assignment.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Result, true
	}
	return assignment.ValidationResult{}, false
}
