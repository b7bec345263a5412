package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/service"
)

// mockTransport records every Send call.
type mockTransport struct {
	limit int
	err   error
	sent  [][]string
	dest  []string
}

func (m *mockTransport) Send(_ context.Context, destination string, segments []string) error {
	if m.err != nil {
		return m.err
	}
	m.dest = append(m.dest, destination)
	m.sent = append(m.sent, segments)
	return nil
}

func (m *mockTransport) SegmentLimit() int { return m.limit }

var _ domain.MessageTransport = (*mockTransport)(nil)

func shareFixture() (domain.Recipe, domain.Recipe, *mockRecipeRepo) {
	a := domain.Recipe{ID: uuid.New(), Name: "Tea", Ingredients: []string{"Water", "Leaves"}, Instructions: "Steep"}
	b := domain.Recipe{ID: uuid.New(), Name: "Toast", Ingredients: []string{"Bread"}, Instructions: "Toast it"}
	repo := &mockRecipeRepo{
		listByIDs: func(_ context.Context, _ []uuid.UUID) ([]domain.Recipe, error) {
			return []domain.Recipe{a, b}, nil
		},
	}
	return a, b, repo
}

func TestShareService_Start_Granted(t *testing.T) {
	a, b, repo := shareFixture()
	tr := &mockTransport{limit: 160}
	svc := service.NewShareService(repo, tr, discardLogger())

	res, err := svc.Start(context.Background(), []uuid.UUID{b.ID, a.ID}, " +15550100 ",
		[]domain.Capability{domain.CapabilitySendMessage})

	require.NoError(t, err)
	assert.Equal(t, service.ShareDelivered, res.Status)
	require.Len(t, tr.sent, 2)
	assert.Equal(t, []string{"Recipe: Toast\nIngredients: Bread\nInstructions: Toast it"}, tr.sent[0], "caller order is kept")
	assert.Equal(t, []string{"+15550100", "+15550100"}, tr.dest)
	assert.Equal(t, 2, res.Segments())
}

func TestShareService_Start_SegmentsByTransportLimit(t *testing.T) {
	a, _, repo := shareFixture()
	tr := &mockTransport{limit: 10}
	svc := service.NewShareService(repo, tr, discardLogger())

	res, err := svc.Start(context.Background(), []uuid.UUID{a.ID}, "x",
		[]domain.Capability{domain.CapabilitySendMessage})

	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	for _, seg := range tr.sent[0] {
		assert.LessOrEqual(t, len([]rune(seg)), 10)
	}
	assert.Greater(t, res.Segments(), 1)
}

func TestShareService_Start_AwaitingThenGranted(t *testing.T) {
	a, _, repo := shareFixture()
	tr := &mockTransport{limit: 160}
	svc := service.NewShareService(repo, tr, discardLogger())

	res, err := svc.Start(context.Background(), []uuid.UUID{a.ID}, "dest", nil)
	require.NoError(t, err)
	assert.Equal(t, service.ShareAwaiting, res.Status)
	assert.Empty(t, tr.sent)

	res, err = svc.Grant(context.Background(), res.ID, true)
	require.NoError(t, err)
	assert.Equal(t, service.ShareDelivered, res.Status)
	assert.Len(t, tr.sent, 1)

	_, err = svc.Grant(context.Background(), res.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound, "a delivered share is cleared")
}

func TestShareService_Start_AwaitingThenDenied(t *testing.T) {
	a, _, repo := shareFixture()
	tr := &mockTransport{limit: 160}
	svc := service.NewShareService(repo, tr, discardLogger())

	res, err := svc.Start(context.Background(), []uuid.UUID{a.ID}, "dest", nil)
	require.NoError(t, err)

	res, err = svc.Grant(context.Background(), res.ID, false)

	require.NoError(t, err)
	assert.Equal(t, service.ShareAbandoned, res.Status)
	assert.Empty(t, tr.sent)
	_, err = svc.Grant(context.Background(), res.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareService_Start_Validation(t *testing.T) {
	a, _, repo := shareFixture()
	svc := service.NewShareService(repo, &mockTransport{limit: 160}, discardLogger())

	_, err := svc.Start(context.Background(), nil, "dest", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Start(context.Background(), []uuid.UUID{a.ID}, "   ", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestShareService_Start_UnknownRecipe(t *testing.T) {
	_, _, repo := shareFixture()
	svc := service.NewShareService(repo, &mockTransport{limit: 160}, discardLogger())

	_, err := svc.Start(context.Background(), []uuid.UUID{uuid.New()}, "dest", nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareService_Start_TransportError(t *testing.T) {
	a, _, repo := shareFixture()
	svc := service.NewShareService(repo, &mockTransport{limit: 160, err: errors.New("boom")}, discardLogger())

	_, err := svc.Start(context.Background(), []uuid.UUID{a.ID}, "dest",
		[]domain.Capability{domain.CapabilitySendMessage})

	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
}

func TestShareService_Preview(t *testing.T) {
	a, b, repo := shareFixture()
	tr := &mockTransport{limit: 160}
	svc := service.NewShareService(repo, tr, discardLogger())

	batches, err := svc.Preview(context.Background(), []uuid.UUID{a.ID, b.ID})

	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "Tea", batches[0].Recipe.Name)
	assert.Empty(t, tr.sent, "preview never sends")
}
