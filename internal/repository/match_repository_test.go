package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCandidates(t *testing.T, gdb *gorm.DB, n int) []db.User {
	t.Helper()
	users := make([]db.User, 0, n)
	for i := 0; i < n; i++ {
		user := createUser(t, gdb,
			fmt.Sprintf("Match%d", i),
			fmt.Sprintf("07220001%02d", i),
			"female", "Nairobi", 23)
		users = append(users, *user)
	}
	return users
}

func TestCreateSessionPinsOrderAndTotal(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 7)

	request := db.MatchRequest{UserID: requester.ID, AgeRangeStart: 23, AgeRangeEnd: 25, Town: "Nairobi"}
	require.NoError(t, repo.CreateSession(ctx, &request, candidates))

	assert.Equal(t, 7, request.TotalMatches)
	assert.Equal(t, 0, request.CurrentOffset)
	assert.Equal(t, 3, request.PageSize)
	assert.True(t, request.IsActive)

	var rows []db.ProfileMatch
	require.NoError(t, gdb.Where("match_request_id = ?", request.ID).Order("position ASC").Find(&rows).Error)
	require.Len(t, rows, 7)
	for i, row := range rows {
		assert.Equal(t, i, row.Position)
		assert.Equal(t, candidates[i].ID, row.MatchedUserID)
	}
}

func TestCreateSessionDeactivatesPreviousOnes(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 4)

	first := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &first, candidates))

	second := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &second, candidates[:2]))

	var activeCount int64
	gdb.Model(&db.MatchRequest{}).Where("user_id = ? AND is_active = ?", requester.ID, true).Count(&activeCount)
	assert.Equal(t, int64(1), activeCount)

	active, err := repo.ActiveSession(ctx, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, 2, active.TotalMatches)
}

func TestActiveSessionAbsent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	_, err := repo.ActiveSession(ctx, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPageAtOrdersByPosition(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 7)

	request := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &request, candidates))

	page, err := repo.PageAt(ctx, request.ID, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Match3", page[0].MatchedUser.Name)
	assert.Equal(t, "Match4", page[1].MatchedUser.Name)
	assert.Equal(t, "Match5", page[2].MatchedUser.Name)
}

func TestAdvanceCursorOvershootsOnShortFinalPage(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 7)

	request := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &request, candidates))

	require.NoError(t, repo.AdvanceCursor(ctx, &request))
	assert.Equal(t, 3, request.CurrentOffset)
	require.NoError(t, repo.AdvanceCursor(ctx, &request))
	assert.Equal(t, 6, request.CurrentOffset)

	// final page holds a single row; the advance still adds the full
	// page size and overshoots the total
	require.NoError(t, repo.AdvanceCursor(ctx, &request))
	assert.Equal(t, 9, request.CurrentOffset)
	assert.False(t, request.HasMoreMatches())
}

func TestAdvanceCursorDetectsConcurrentAdvance(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 7)

	request := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &request, candidates))

	// two handlers read the same session state
	stale := request
	require.NoError(t, repo.AdvanceCursor(ctx, &request))

	err := repo.AdvanceCursor(ctx, &stale)
	assert.ErrorIs(t, err, repository.ErrCursorConflict)

	// loser must not have moved the cursor a second time
	fresh, err := repo.ActiveSession(ctx, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.CurrentOffset)
}

func TestAdvanceCursorMarksPageSent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewMatchRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	candidates := seedCandidates(t, gdb, 5)

	request := db.MatchRequest{UserID: requester.ID}
	require.NoError(t, repo.CreateSession(ctx, &request, candidates))
	require.NoError(t, repo.AdvanceCursor(ctx, &request))

	var sent int64
	gdb.Model(&db.ProfileMatch{}).Where("match_request_id = ? AND sent = ?", request.ID, true).Count(&sent)
	assert.Equal(t, int64(3), sent)
}
