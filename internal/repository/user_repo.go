package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/penzi-exercise/internal/db"
)

// UserRepository provides data access methods for User and UserDetail.
// It encapsulates all profile reads and the registration-funnel writes.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByPhone fetches the user registered for a phone number.
// Returns gorm.ErrRecordNotFound when the phone is unregistered.
func (r *UserRepository) GetByPhone(ctx context.Context, phoneNumber string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a newly registered user.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetDetail fetches the detail row for a user.
// Returns gorm.ErrRecordNotFound when the user never passed the details stage.
func (r *UserRepository) GetDetail(ctx context.Context, userID uint64) (*db.UserDetail, error) {
	var detail db.UserDetail
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpsertDetail writes the five details-stage fields and advances the
// user to the details stage in one transaction.
//
// Behavior:
//   - First submission inserts the detail row; resubmission overwrites
//     all five fields (unique user_id + OnConflict gives the overwrite
//     guarantee).
//   - Resubmission is allowed from any stage, but the registration
//     stage never moves backwards: a completed user stays completed.
func (r *UserRepository) UpsertDetail(ctx context.Context, user *db.User, detail *db.UserDetail) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail.UserID = user.ID
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"education_level", "profession", "marital_status", "religion", "ethnicity", "updated_at",
			}),
		}).Create(detail).Error; err != nil {
			return err
		}
		return advanceStage(tx, user, db.StageDetails)
	})
}

// UpsertSelfDescription stores the free-text self description and
// advances the user to the completed stage in one transaction.
func (r *UserRepository) UpsertSelfDescription(ctx context.Context, user *db.User, description string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail := db.UserDetail{UserID: user.ID, SelfDescription: description}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"self_description", "updated_at",
			}),
		}).Create(&detail).Error; err != nil {
			return err
		}
		return advanceStage(tx, user, db.StageCompleted)
	})
}

// advanceStage moves a user's registration stage forward. Writes only
// when the new stage ranks higher, keeping the stage monotonic.
func advanceStage(tx *gorm.DB, user *db.User, stage string) error {
	if db.StageRank(stage) <= db.StageRank(user.RegistrationStage) {
		return nil
	}
	if err := tx.Model(user).Update("registration_stage", stage).Error; err != nil {
		return err
	}
	user.RegistrationStage = stage
	return nil
}

// FindCandidates returns the users matching a requester's criteria:
// opposite gender, age within the inclusive range, same (title-cased)
// town, excluding the requester. Ordered by id so the result order is
// the stable creation order the session pins at position 0..N-1.
//
// A reversed range (start > end) yields zero rows, which callers treat
// as a normal no-results outcome.
func (r *UserRepository) FindCandidates(ctx context.Context, requester *db.User, ageStart, ageEnd int, town string) ([]db.User, error) {
	oppositeGender := "female"
	if requester.Gender == "female" {
		oppositeGender = "male"
	}

	var candidates []db.User
	err := r.db.WithContext(ctx).
		Where("gender = ?", oppositeGender).
		Where("age >= ? AND age <= ?", ageStart, ageEnd).
		Where("town = ?", town).
		Where("id <> ?", requester.ID).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
