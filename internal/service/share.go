package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/message"
	"github.com/pkordes/mealmate/internal/permission"
	"github.com/pkordes/mealmate/internal/repo"
	"github.com/pkordes/mealmate/internal/session"
)

// ShareStatus is the outcome of a share request so far.
type ShareStatus string

const (
	ShareDelivered ShareStatus = "delivered"
	ShareAwaiting  ShareStatus = "awaiting_grant"
	ShareAbandoned ShareStatus = "abandoned"
)

// ShareResult describes a share request.
type ShareResult struct {
	ID          uuid.UUID
	Status      ShareStatus
	Destination string
	Batches     []message.Batch
}

// Segments returns the total number of segments across all batches.
func (r ShareResult) Segments() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Segments)
	}
	return n
}

// shareJob is a share parked until the client grants send_message.
type shareJob struct {
	mu      sync.Mutex
	id      uuid.UUID
	dest    string
	batches []message.Batch
	gate    *permission.Gate

	// Set by the request that resolves the gate; the resumed delivery runs
	// on that request's goroutine.
	ctx context.Context
	err error
}

// ShareService composes recipe digests and delivers them through a
// MessageTransport once the client has granted send_message.
type ShareService struct {
	recipes   repo.RecipeRepo
	transport domain.MessageTransport
	jobs      *session.Registry[*shareJob]
	log       *slog.Logger
}

// NewShareService constructs a ShareService.
func NewShareService(recipes repo.RecipeRepo, transport domain.MessageTransport, log *slog.Logger) *ShareService {
	return &ShareService{
		recipes:   recipes,
		transport: transport,
		jobs:      session.NewRegistry[*shareJob]("share", log),
		log:       log,
	}
}

// Preview composes and segments the selected recipes without sending them.
// Recipes appear in the order of ids.
func (s *ShareService) Preview(ctx context.Context, ids []uuid.UUID) ([]message.Batch, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: select at least one recipe", domain.ErrValidation)
	}
	recipes, err := s.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.ShareService.Preview: %w", err)
	}
	batches, err := message.ComposeBatch(recipes, s.transport.SegmentLimit())
	if err != nil {
		return nil, fmt.Errorf("service.ShareService.Preview: %w", err)
	}
	return batches, nil
}

// Start composes the selected recipes and sends them to destination.
//
// If send_message is not among granted the delivery is parked and the result
// has status ShareAwaiting; the client answers with Grant.
// Returns domain.ErrValidation for an empty selection or a blank destination,
// domain.ErrNotFound when a selected recipe does not exist.
func (s *ShareService) Start(ctx context.Context, ids []uuid.UUID, destination string, granted []domain.Capability) (ShareResult, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return ShareResult{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	batches, err := s.Preview(ctx, ids)
	if err != nil {
		return ShareResult{}, err
	}

	job := &shareJob{
		id:      uuid.New(),
		dest:    destination,
		batches: batches,
		gate:    permission.NewGate(granted...),
		ctx:     ctx,
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	if !job.gate.Run(domain.CapabilitySendMessage, func() { s.deliver(job) }) {
		s.jobs.Put(job.id, job)
		s.log.Info("share awaiting grant", "share_id", job.id, "recipes", len(batches))
		return job.result(ShareAwaiting), nil
	}
	if job.err != nil {
		return ShareResult{}, fmt.Errorf("service.ShareService.Start: %w", job.err)
	}
	return job.result(ShareDelivered), nil
}

// Grant answers the send_message request of a parked share. A grant delivers
// it; a denial abandons it. Either way the share is cleared.
func (s *ShareService) Grant(ctx context.Context, id uuid.UUID, granted bool) (ShareResult, error) {
	job, err := s.jobs.Take(id)
	if err != nil {
		return ShareResult{}, fmt.Errorf("service.ShareService.Grant: %w", err)
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	job.ctx = ctx
	job.gate.Resolve(domain.CapabilitySendMessage, granted)
	if !granted {
		s.log.Info("share abandoned", "share_id", id)
		return job.result(ShareAbandoned), nil
	}
	if job.err != nil {
		return ShareResult{}, fmt.Errorf("service.ShareService.Grant: %w", job.err)
	}
	return job.result(ShareDelivered), nil
}

// deliver sends every batch in order. Called with job.mu held.
func (s *ShareService) deliver(job *shareJob) {
	for _, b := range job.batches {
		if err := s.transport.Send(job.ctx, job.dest, b.Segments); err != nil {
			job.err = fmt.Errorf("%w: recipe %s: %v", domain.ErrDeliveryFailed, b.Recipe.ID, err)
			s.log.Error("share delivery failed", "share_id", job.id, "recipe_id", b.Recipe.ID, "error", err)
			return
		}
	}
	s.log.Info("share delivered", "share_id", job.id, "recipes", len(job.batches))
}

// load fetches recipes in the order of ids. Duplicated IDs are kept.
func (s *ShareService) load(ctx context.Context, ids []uuid.UUID) ([]domain.Recipe, error) {
	found, err := s.recipes.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	out := make([]domain.Recipe, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
		}
		out = append(out, r)
	}
	return out, nil
}

func (j *shareJob) result(status ShareStatus) ShareResult {
	return ShareResult{ID: j.id, Status: status, Destination: j.dest, Batches: j.batches}
}
