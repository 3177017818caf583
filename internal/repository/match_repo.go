package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/db"
)

// ErrCursorConflict is returned when an offset advance loses the race
// against another message from the same phone. The page it fetched was
// already served by the winner and must not be sent again.
var ErrCursorConflict = errors.New("pagination cursor advanced concurrently")

// MatchRepository provides data access for MatchRequest sessions and
// their ordered ProfileMatch rows.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateSession opens a new pagination session in a single transaction.
//
// Behavior:
//   - Deactivates every previously active session of the requester, so
//     exactly one session per user is active afterwards.
//   - Inserts the MatchRequest with total_matches fixed to the
//     candidate count and current_offset 0.
//   - Inserts one ProfileMatch per candidate, positions 0..N-1 in the
//     given order. The order is never recomputed.
//
// A crash mid-way rolls the whole session back; an active session with
// zero backing rows cannot exist.
func (r *MatchRepository) CreateSession(ctx context.Context, request *db.MatchRequest, candidates []db.User) error {
	if len(candidates) == 0 {
		return errors.New("session needs at least one candidate")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.MatchRequest{}).
			Where("user_id = ? AND is_active = ?", request.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		request.TotalMatches = len(candidates)
		request.CurrentOffset = 0
		request.IsActive = true
		if request.PageSize == 0 {
			request.PageSize = 3
		}
		if err := tx.Create(request).Error; err != nil {
			return err
		}

		rows := make([]db.ProfileMatch, 0, len(candidates))
		for i, candidate := range candidates {
			rows = append(rows, db.ProfileMatch{
				MatchRequestID: request.ID,
				MatchedUserID:  candidate.ID,
				Position:       i,
			})
		}
		return tx.Create(&rows).Error
	})
}

// ActiveSession returns the requester's current session: the most
// recently created MatchRequest with is_active=true.
// Returns gorm.ErrRecordNotFound when no session is active.
func (r *MatchRepository) ActiveSession(ctx context.Context, userID uint64) (*db.MatchRequest, error) {
	var request db.MatchRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC, id DESC").
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// PageAt fetches one page of a session's matches, ordered by position,
// starting at offset, with the matched user rows preloaded.
func (r *MatchRepository) PageAt(ctx context.Context, requestID uint64, offset, limit int) ([]db.ProfileMatch, error) {
	var page []db.ProfileMatch
	err := r.db.WithContext(ctx).
		Preload("MatchedUser").
		Where("match_request_id = ?", requestID).
		Order("position ASC").
		Offset(offset).
		Limit(limit).
		Find(&page).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

// AdvanceCursor moves the session cursor forward by the full page size
// after a page was served, and marks the served rows sent.
//
// Behavior:
//   - Compare-and-advance: the UPDATE is guarded on the offset the
//     caller read. Zero rows affected means another message advanced
//     the cursor first → ErrCursorConflict.
//   - The advance is always the full page size even when the served
//     page was shorter. The resulting overshoot past total_matches is
//     the terminal condition the next NEXT observes.
func (r *MatchRepository) AdvanceCursor(ctx context.Context, request *db.MatchRequest) error {
	newOffset := request.CurrentOffset + request.PageSize

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.MatchRequest{}).
			Where("id = ? AND current_offset = ?", request.ID, request.CurrentOffset).
			Update("current_offset", newOffset)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCursorConflict
		}

		return tx.Model(&db.ProfileMatch{}).
			Where("match_request_id = ? AND position >= ? AND position < ?",
				request.ID, request.CurrentOffset, newOffset).
			Update("sent", true).Error
	})
	if err != nil {
		return err
	}

	request.CurrentOffset = newOffset
	return nil
}
