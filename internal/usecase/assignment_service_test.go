package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	"github.com/riskibarqy/synced-sports/internal/domain/qualification"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/geo"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/repository/memory"
)

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type assignmentFixture struct {
	service     *AssignmentService
	officials   *memory.OfficialRepository
	games       *memory.GameRepository
	assignments *memory.AssignmentRepository
}

var fixtureNow = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

func newAssignmentFixture(t *testing.T, officials []official.Official) assignmentFixture {
	t.Helper()

	officialRepo := memory.NewOfficialRepository(officials)
	gameRepo := memory.NewGameRepository(memory.SeedGames())
	assignmentRepo := memory.NewAssignmentRepository(gameRepo)

	service := NewAssignmentService(
		officialRepo,
		gameRepo,
		assignmentRepo,
		qualification.DefaultMatrix(),
		geo.Haversine,
		&sequenceIDGenerator{prefix: "asg"},
		WithValidationWorkers(4),
	)
	service.now = func() time.Time { return fixtureNow }

	return assignmentFixture{
		service:     service,
		officials:   officialRepo,
		games:       gameRepo,
		assignments: assignmentRepo,
	}
}

func TestAssignmentService_AdminAssignQualifiedOfficial(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(t.Context(), AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-ben",
		Position:   "Referee",
		Mode:       assignment.Administrative,
		ActorID:    "admin-1",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if out.Result.Decision != assignment.DecisionPending {
		t.Fatalf("expected pending decision, got %s", out.Result.Decision)
	}
	if len(out.Result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", out.Result.Warnings)
	}
	item := out.Assignment
	if item.Status != assignment.StatusPending || item.Origin != assignment.OriginAdmin {
		t.Fatalf("unexpected status/origin: %s/%s", item.Status, item.Origin)
	}
	if item.Position != game.PositionReferee {
		t.Fatalf("expected normalized position, got %q", item.Position)
	}
	if item.CalculatedWage != 45 {
		t.Fatalf("expected wage 45, got %v", item.CalculatedWage)
	}
	if item.CreatedBy != "admin-1" || !item.CreatedAt.Equal(fixtureNow) {
		t.Fatalf("unexpected audit fields: %+v", item)
	}

	stored, exists, err := fx.assignments.GetByID(t.Context(), item.ID)
	if err != nil || !exists {
		t.Fatalf("expected stored assignment, exists=%v err=%v", exists, err)
	}
	if stored.GameID != memory.GameIDCupOpener {
		t.Fatalf("unexpected stored game: %s", stored.GameID)
	}
}

func TestAssignmentService_SelfServiceUnqualifiedRejected(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(t.Context(), AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-dee",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-dee",
	})
	if !errors.Is(err, assignment.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !errors.Is(err, assignment.ErrUnqualified) {
		t.Fatalf("expected ErrUnqualified, got %v", err)
	}
	if out.Result.CalculatedWage != nil {
		t.Fatalf("rejected proposal must not carry a wage")
	}

	result, ok := IsRejection(err)
	if !ok || !result.Rejected() {
		t.Fatalf("expected rejection result, got %+v", result)
	}

	items, err := fx.assignments.ListByGame(t.Context(), memory.GameIDCupOpener)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected proposal must not be stored, got %d", len(items))
	}
}

func TestAssignmentService_AdminOverridesPolicyConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		officialID  string
		wantWarning string
	}{
		{name: "division not covered", officialID: "ref-dee", wantWarning: "referee not typically qualified for division U15-1"},
		{name: "no level", officialID: "ref-eli", wantWarning: "referee has no assigned level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fx := newAssignmentFixture(t, memory.SeedOfficials())
			out, err := fx.service.Assign(t.Context(), AssignInput{
				GameID:     memory.GameIDCupOpener,
				OfficialID: tc.officialID,
				Position:   "referee",
				Mode:       assignment.Administrative,
				ActorID:    "admin-1",
			})
			if err != nil {
				t.Fatalf("assign: %v", err)
			}
			if out.Result.Decision != assignment.DecisionPending {
				t.Fatalf("expected pending, got %s", out.Result.Decision)
			}
			if !slices.Contains(out.Result.Warnings, tc.wantWarning) {
				t.Fatalf("expected warning %q, got %v", tc.wantWarning, out.Result.Warnings)
			}
			if !slices.Contains(out.Assignment.Warnings, tc.wantWarning) {
				t.Fatalf("expected stored warning %q, got %v", tc.wantWarning, out.Assignment.Warnings)
			}
		})
	}
}

func TestAssignmentService_AssignInputErrors(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	tests := []struct {
		name    string
		input   AssignInput
		wantErr error
	}{
		{
			name:    "missing position",
			input:   AssignInput{GameID: memory.GameIDCupOpener, OfficialID: "ref-ben", Mode: assignment.Administrative, ActorID: "admin-1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing actor",
			input:   AssignInput{GameID: memory.GameIDCupOpener, OfficialID: "ref-ben", Position: "referee", Mode: assignment.Administrative},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "self service for someone else",
			input:   AssignInput{GameID: memory.GameIDCupOpener, OfficialID: "ref-ben", Position: "referee", Mode: assignment.SelfService, ActorID: "ref-ana"},
			wantErr: ErrForbidden,
		},
		{
			name:    "unknown game",
			input:   AssignInput{GameID: "gm-missing", OfficialID: "ref-ben", Position: "referee", Mode: assignment.Administrative, ActorID: "admin-1"},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown official",
			input:   AssignInput{GameID: memory.GameIDCupOpener, OfficialID: "ref-zed", Position: "referee", Mode: assignment.Administrative, ActorID: "admin-1"},
			wantErr: ErrNotFound,
		},
		{
			name:    "cancelled game",
			input:   AssignInput{GameID: memory.GameIDCupCanceled, OfficialID: "ref-ana", Position: "referee", Mode: assignment.Administrative, ActorID: "admin-1"},
			wantErr: assignment.ErrGameCancelled,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Assign(t.Context(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAssignmentService_WageUsesGameMultiplier(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(t.Context(), AssignInput{
		GameID:     memory.GameIDCupDerby,
		OfficialID: "ref-ana",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-ana",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if out.Assignment.CalculatedWage != 90 {
		t.Fatalf("expected 60 x 1.5 = 90, got %v", out.Assignment.CalculatedWage)
	}
	if out.Assignment.WageMultiplier != 1.5 || out.Assignment.WageReason != "provincial final" {
		t.Fatalf("unexpected multiplier audit: %+v", out.Assignment)
	}
	if out.Result.Breakdown == nil || out.Result.Breakdown.Calculation == "" {
		t.Fatalf("expected wage breakdown, got %+v", out.Result.Breakdown)
	}
}

func TestAssignmentService_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-ana",
		Position:   "referee",
		Mode:       assignment.Administrative,
		ActorID:    "admin-1",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	assignmentID := out.Assignment.ID

	if _, err := fx.service.Accept(ctx, assignmentID, "ref-ben"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another official, got %v", err)
	}

	accepted, err := fx.service.Accept(ctx, assignmentID, "ref-ana")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != assignment.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	g, _, _ := fx.games.GetByID(ctx, memory.GameIDCupOpener)
	if g.Status != game.StatusPartiallyAssigned {
		t.Fatalf("expected partially assigned game, got %s", g.Status)
	}

	if _, err := fx.service.Decline(ctx, assignmentID, "ref-ana"); !errors.Is(err, assignment.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition declining an accepted assignment, got %v", err)
	}

	cancelled, err := fx.service.Cancel(ctx, assignmentID, "admin-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != assignment.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	g, _, _ = fx.games.GetByID(ctx, memory.GameIDCupOpener)
	if g.Status != game.StatusUnassigned {
		t.Fatalf("expected game back to unassigned, got %s", g.Status)
	}

	if _, err := fx.service.Accept(ctx, assignmentID, "ref-ana"); !errors.Is(err, assignment.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after cancel, got %v", err)
	}

	// the freed position can be filled again
	if _, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-ben",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-ben",
	}); err != nil {
		t.Fatalf("refill cancelled position: %v", err)
	}
}

// interleavingAssignmentRepository runs afterGet once, right after the
// first GetByID returns, to land a concurrent write between a transition's
// read and its write.
type interleavingAssignmentRepository struct {
	*memory.AssignmentRepository
	once     sync.Once
	afterGet func()
}

func (r *interleavingAssignmentRepository) GetByID(ctx context.Context, id string) (assignment.Assignment, bool, error) {
	item, ok, err := r.AssignmentRepository.GetByID(ctx, id)
	r.once.Do(func() {
		if r.afterGet != nil {
			r.afterGet()
		}
	})
	return item, ok, err
}

func TestAssignmentService_StaleAcceptDoesNotReviveCancelledAssignment(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-ana",
		Position:   "referee",
		Mode:       assignment.Administrative,
		ActorID:    "admin-1",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	repo := &interleavingAssignmentRepository{AssignmentRepository: fx.assignments}
	racing := NewAssignmentService(fx.officials, fx.games, repo, qualification.DefaultMatrix(), geo.Haversine, &sequenceIDGenerator{prefix: "race"})
	repo.afterGet = func() {
		if _, err := fx.service.Cancel(ctx, out.Assignment.ID, "admin-1"); err != nil {
			t.Errorf("cancel: %v", err)
		}
		if _, err := fx.service.Assign(ctx, AssignInput{
			GameID:     memory.GameIDCupOpener,
			OfficialID: "ref-ben",
			Position:   "referee",
			Mode:       assignment.Administrative,
			ActorID:    "admin-1",
		}); err != nil {
			t.Errorf("refill: %v", err)
		}
	}

	if _, err := racing.Accept(ctx, out.Assignment.ID, "ref-ana"); !errors.Is(err, assignment.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for a stale accept, got %v", err)
	}

	items, err := fx.assignments.ListByGame(ctx, memory.GameIDCupOpener)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	active := 0
	for _, item := range items {
		if item.Position == game.PositionReferee && item.Status.Active() {
			active++
			if item.OfficialID != "ref-ben" {
				t.Fatalf("expected ref-ben to hold the position, got %+v", item)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected one active referee, got %d", active)
	}
}

func TestAssignmentService_DeclineFreesPosition(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupSecond,
		OfficialID: "ref-dee",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-dee",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := fx.service.Decline(ctx, out.Assignment.ID, "ref-dee"); err != nil {
		t.Fatalf("decline: %v", err)
	}

	next, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupSecond,
		OfficialID: "ref-ana",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-ana",
	})
	if err != nil {
		t.Fatalf("assign after decline: %v", err)
	}
	if next.Assignment.Status != assignment.StatusPending {
		t.Fatalf("expected pending, got %s", next.Assignment.Status)
	}
}

func TestAssignmentService_ConcurrentFillHasSingleWinner(t *testing.T) {
	t.Parallel()

	const attempts = 32
	officials := make([]official.Official, 0, attempts)
	for i := range attempts {
		officials = append(officials, official.Official{
			ID:          fmt.Sprintf("ref-%02d", i),
			Level:       official.LevelExpert,
			Home:        location.Location{Latitude: 51.12, Longitude: -114.07},
			MaxDistance: 100,
			IsAvailable: true,
			BaseWage:    40,
		})
	}
	fx := newAssignmentFixture(t, officials)

	var wins atomic.Int32
	var filled atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, o := range officials {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := fx.service.Assign(t.Context(), AssignInput{
				GameID:     memory.GameIDCupOpener,
				OfficialID: o.ID,
				Position:   "referee",
				Mode:       assignment.SelfService,
				ActorID:    o.ID,
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, assignment.ErrPositionFilled):
				filled.Add(1)
			default:
				t.Errorf("unexpected error for %s: %v", o.ID, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one successful assignment, got %d", wins.Load())
	}
	if filled.Load() != attempts-1 {
		t.Fatalf("expected %d position filled rejections, got %d", attempts-1, filled.Load())
	}

	items, err := fx.assignments.ListByGame(t.Context(), memory.GameIDCupOpener)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one stored assignment, got %d", len(items))
	}
}

func TestAssignmentService_ValidateBatchKeepsOrder(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	inputs := []AssignInput{
		{GameID: memory.GameIDCupOpener, OfficialID: "ref-ben", Position: "referee", Mode: assignment.SelfService, ActorID: "ref-ben"},
		{GameID: memory.GameIDCupOpener, OfficialID: "ref-dee", Position: "referee", Mode: assignment.SelfService, ActorID: "ref-dee"},
		{GameID: "gm-missing", OfficialID: "ref-ben", Position: "referee", Mode: assignment.SelfService, ActorID: "ref-ben"},
		{GameID: memory.GameIDCupOpener, OfficialID: "ref-dee", Position: "referee", Mode: assignment.Administrative, ActorID: "admin-1"},
		{GameID: memory.GameIDCupOpener, OfficialID: "ref-ben", Position: "referee", Mode: assignment.SelfService, ActorID: "ref-ana"},
	}

	results, err := fx.service.ValidateBatch(t.Context(), inputs)
	if err != nil {
		t.Fatalf("validate batch: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, row := range results {
		if row.Index != i {
			t.Fatalf("result %d carries index %d", i, row.Index)
		}
	}

	if results[0].Err != nil || results[0].Result.Decision != assignment.DecisionPending {
		t.Fatalf("expected first proposal pending, got %+v", results[0])
	}
	if results[1].Result.Decision != assignment.DecisionRejected {
		t.Fatalf("expected self-service rookie rejected, got %s", results[1].Result.Decision)
	}
	if !errors.Is(results[2].Err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing game, got %v", results[2].Err)
	}
	if results[3].Result.Decision != assignment.DecisionPending || len(results[3].Result.Warnings) == 0 {
		t.Fatalf("expected admin override with warnings, got %+v", results[3].Result)
	}
	if !errors.Is(results[4].Err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-service on behalf of another official, got %v", results[4].Err)
	}

	items, err := fx.assignments.ListByGame(t.Context(), memory.GameIDCupOpener)
	if err != nil {
		t.Fatalf("list by game: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("dry run must not store assignments, got %d", len(items))
	}
}

func TestAssignmentService_ValidateBatchRejectsEmpty(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	if _, err := fx.service.ValidateBatch(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAssignmentService_RankCandidates(t *testing.T) {
	t.Parallel()

	fx := newAssignmentFixture(t, memory.SeedOfficials())
	ranked, err := fx.service.RankCandidates(t.Context(), memory.GameIDCupDerby, "referee")
	if err != nil {
		t.Fatalf("rank candidates: %v", err)
	}

	if len(ranked) != 5 {
		t.Fatalf("expected 5 available officials, got %d", len(ranked))
	}
	for _, c := range ranked {
		if c.Official.ID == "ref-fay" {
			t.Fatalf("unavailable official must not be ranked")
		}
	}

	got := []string{ranked[0].Official.ID, ranked[1].Official.ID, ranked[2].Official.ID}
	want := []string{"ref-ana", "ref-eli", "ref-ben"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected ranking head: got=%v want=%v", got, want)
	}
	if ranked[1].Distance == nil || *ranked[1].Distance != 0 {
		t.Fatalf("expected zero distance for local official, got %v", ranked[1].Distance)
	}
}

func TestAssignmentService_ChangeMultiplierRestampsActiveAssignments(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fx := newAssignmentFixture(t, memory.SeedOfficials())
	out, err := fx.service.Assign(ctx, AssignInput{
		GameID:     memory.GameIDCupOpener,
		OfficialID: "ref-ben",
		Position:   "referee",
		Mode:       assignment.SelfService,
		ActorID:    "ref-ben",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	updated, err := fx.service.ChangeMultiplier(ctx, memory.GameIDCupOpener, 1.25, "holiday weekend")
	if err != nil {
		t.Fatalf("change multiplier: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != out.Assignment.ID {
		t.Fatalf("expected one restamped assignment, got %+v", updated)
	}
	if updated[0].CalculatedWage != 56.25 {
		t.Fatalf("expected 45 x 1.25 = 56.25, got %v", updated[0].CalculatedWage)
	}

	stored, _, _ := fx.assignments.GetByID(ctx, out.Assignment.ID)
	if stored.CalculatedWage != 56.25 || stored.WageReason != "holiday weekend" {
		t.Fatalf("unexpected stored wage: %+v", stored)
	}

	if err := fx.officials.Upsert(ctx, official.Official{
		ID: "ref-ben", Level: official.LevelSenior, IsAvailable: true, BaseWage: 50,
	}); err != nil {
		t.Fatalf("upsert official: %v", err)
	}
	recalculated, err := fx.service.RecalculateWage(ctx, out.Assignment.ID)
	if err != nil {
		t.Fatalf("recalculate wage: %v", err)
	}
	if recalculated.CalculatedWage != 62.5 {
		t.Fatalf("expected 50 x 1.25 = 62.5, got %v", recalculated.CalculatedWage)
	}

	if _, err := fx.service.ChangeMultiplier(ctx, memory.GameIDCupOpener, 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero multiplier, got %v", err)
	}
}
