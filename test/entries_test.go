package test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymlogger/internal/entries"
)

type staticToken string

func (t staticToken) AccessToken(context.Context) (string, error) {
	return string(t), nil
}

func newEntriesClient(token string) *entries.Client {
	return entries.NewClient(serverEndpoint, &http.Client{Timeout: 5 * time.Second}, staticToken(token))
}

func (s *IntegrationTestSuite) TestEntries_CreateListDelete() {
	ctx := context.Background()
	client := newEntriesClient("token-lifter-3")
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	older := entries.New(&entries.BodyWeight{Weight: 81.5}, now.Add(-24*time.Hour), time.UTC)
	newer := entries.New(&entries.BodyWeight{Weight: 80.9}, now, time.UTC)
	olderID, err := client.Create(ctx, "lifter-3", older)
	s.Require().NoError(err)
	newerID, err := client.Create(ctx, "lifter-3", newer)
	s.Require().NoError(err)
	s.NotEqual(olderID, newerID)

	list, err := client.List(ctx, "lifter-3", entries.KindBodyWeight)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newerID, list[0].ID)
	s.Equal("2024-01-10", list[0].Date)
	s.Equal(80.9, list[0].Details.(*entries.BodyWeight).Weight)
	s.Equal(olderID, list[1].ID)
	s.Equal("2024-01-09", list[1].Date)

	s.Require().NoError(client.Delete(ctx, "lifter-3", olderID))
	list, err = client.List(ctx, "lifter-3", entries.KindBodyWeight)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(newerID, list[0].ID)

	// already gone
	err = client.Delete(ctx, "lifter-3", olderID)
	var apiErr *entries.APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusNotFound, apiErr.StatusCode)

	var rowsLeft int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM gymlogger_entry WHERE user_id = $1 AND type = $2`,
		"lifter-3", entries.KindBodyWeight.String(),
	).Scan(&rowsLeft))
	s.Equal(1, rowsLeft)
}

func (s *IntegrationTestSuite) TestEntries_KindsAreSeparate() {
	ctx := context.Background()
	client := newEntriesClient("token-lifter-1")
	now := time.Now()

	liftID, err := client.Create(ctx, "lifter-1", entries.New(&entries.Weightlifting{
		Exercise: "Bench Press",
		Category: "Chest",
		Sets:     3,
		Reps:     8,
		Weight:   70,
	}, now, time.UTC))
	s.Require().NoError(err)

	cardioID, err := client.Create(ctx, "lifter-1", entries.New(&entries.Cardio{
		Subtype:  entries.CardioSprints,
		Interval: "30s/30s",
		Power:    250,
	}, now, time.UTC))
	s.Require().NoError(err)

	lifts, err := client.List(ctx, "lifter-1", entries.KindWeightlifting)
	s.Require().NoError(err)
	s.Require().NotEmpty(lifts)
	s.Equal(liftID, lifts[0].ID)
	lift := lifts[0].Details.(*entries.Weightlifting)
	s.Equal("Bench Press", lift.Exercise)
	s.Equal("Chest", lift.Category)
	s.Equal(3, lift.Sets)

	cardio, err := client.List(ctx, "lifter-1", entries.KindCardio)
	s.Require().NoError(err)
	s.Require().NotEmpty(cardio)
	s.Equal(cardioID, cardio[0].ID)
	s.Equal(entries.CardioSprints, cardio[0].Details.(*entries.Cardio).Subtype)
	s.Equal("30s/30s", cardio[0].Details.(*entries.Cardio).Interval)
	for _, e := range cardio {
		s.NotEqual(liftID, e.ID)
	}
}

func (s *IntegrationTestSuite) TestEntries_OtherUsersEntriesForbidden() {
	ctx := context.Background()
	owner := newEntriesClient("token-lifter-1")
	intruder := newEntriesClient("token-lifter-2")

	id, err := owner.Create(ctx, "lifter-1", entries.New(&entries.BodyWeight{Weight: 75}, time.Now(), time.UTC))
	s.Require().NoError(err)

	var apiErr *entries.APIError
	_, err = intruder.List(ctx, "lifter-1", entries.KindBodyWeight)
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusForbidden, apiErr.StatusCode)

	err = intruder.Delete(ctx, "lifter-1", id)
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusForbidden, apiErr.StatusCode)

	// the intruder's own collection does not see it either
	list, err := intruder.List(ctx, "lifter-2", entries.KindBodyWeight)
	s.Require().NoError(err)
	for _, e := range list {
		s.NotEqual(id, e.ID)
	}
}

func (s *IntegrationTestSuite) TestEntries_InvalidToken() {
	_, err := newEntriesClient("forged").List(context.Background(), "lifter-1", entries.KindCardio)
	var apiErr *entries.APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	s.Equal("invalid access token", apiErr.Message)
}

func (s *IntegrationTestSuite) TestEntries_InvalidEntryRejected() {
	_, err := newEntriesClient("token-lifter-1").Create(
		context.Background(),
		"lifter-1",
		entries.New(&entries.BodyWeight{Weight: 0}, time.Now(), time.UTC),
	)
	var apiErr *entries.APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadRequest, apiErr.StatusCode)
}
