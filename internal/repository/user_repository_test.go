package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/oggyb/penzi-exercise/internal/db"
	"github.com/oggyb/penzi-exercise/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(
		&db.User{}, &db.UserDetail{}, &db.MatchRequest{}, &db.ProfileMatch{}, &db.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func createUser(t *testing.T, gdb *gorm.DB, name, phone, gender, town string, age int) *db.User {
	t.Helper()
	user := db.User{
		Name:              name,
		PhoneNumber:       phone,
		Age:               age,
		Gender:            gender,
		County:            town,
		Town:              town,
		RegistrationStage: db.StageBasic,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

func TestGetByPhone(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	createUser(t, gdb, "Maria", "0722000001", "female", "Nairobi", 25)

	user, err := repo.GetByPhone(ctx, "0722000001")
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)

	_, err = repo.GetByPhone(ctx, "0722999999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertDetailAdvancesStage(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := createUser(t, gdb, "John", "0711000001", "male", "Kisumu", 30)

	detail := db.UserDetail{
		EducationLevel: "Degree",
		Profession:     "Teacher",
		MaritalStatus:  "single",
		Religion:       "Christian",
		Ethnicity:      "Luo",
	}
	require.NoError(t, repo.UpsertDetail(ctx, user, &detail))
	assert.Equal(t, db.StageDetails, user.RegistrationStage)

	var stored db.UserDetail
	require.NoError(t, gdb.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, "Teacher", stored.Profession)

	// resubmission overwrites all five fields, no second row
	detail2 := db.UserDetail{
		EducationLevel: "Diploma",
		Profession:     "Driver",
		MaritalStatus:  "divorced",
		Religion:       "Muslim",
		Ethnicity:      "Mijikenda",
	}
	require.NoError(t, repo.UpsertDetail(ctx, user, &detail2))

	var count int64
	gdb.Model(&db.UserDetail{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, gdb.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, "Driver", stored.Profession)
	assert.Equal(t, "divorced", stored.MaritalStatus)
}

func TestStageNeverRegresses(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := createUser(t, gdb, "John", "0711000001", "male", "Kisumu", 30)

	require.NoError(t, repo.UpsertSelfDescription(ctx, user, "friendly and outgoing"))
	assert.Equal(t, db.StageCompleted, user.RegistrationStage)

	// details resubmission after completion keeps the completed stage
	detail := db.UserDetail{MaritalStatus: "single"}
	require.NoError(t, repo.UpsertDetail(ctx, user, &detail))
	assert.Equal(t, db.StageCompleted, user.RegistrationStage)

	var stored db.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.Equal(t, db.StageCompleted, stored.RegistrationStage)
}

func TestUpsertSelfDescriptionKeepsDetailFields(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	user := createUser(t, gdb, "John", "0711000001", "male", "Kisumu", 30)

	detail := db.UserDetail{EducationLevel: "Degree", MaritalStatus: "single"}
	require.NoError(t, repo.UpsertDetail(ctx, user, &detail))
	require.NoError(t, repo.UpsertSelfDescription(ctx, user, "friendly and outgoing"))

	var stored db.UserDetail
	require.NoError(t, gdb.Where("user_id = ?", user.ID).First(&stored).Error)
	assert.Equal(t, "Degree", stored.EducationLevel)
	assert.Equal(t, "friendly and outgoing", stored.SelfDescription)
}

func TestFindCandidates(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	createUser(t, gdb, "Maria", "0722000001", "female", "Nairobi", 23)
	createUser(t, gdb, "Grace", "0722000002", "female", "Nairobi", 25)
	createUser(t, gdb, "Faith", "0722000003", "female", "Kisumu", 24)  // wrong town
	createUser(t, gdb, "Joyce", "0722000004", "female", "Nairobi", 30) // outside band
	createUser(t, gdb, "Peter", "0711000002", "male", "Nairobi", 24)   // same gender

	candidates, err := repo.FindCandidates(ctx, requester, 23, 25, "Nairobi")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	// creation order is the serving order
	assert.Equal(t, "Maria", candidates[0].Name)
	assert.Equal(t, "Grace", candidates[1].Name)
}

func TestFindCandidatesReversedRangeIsEmpty(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)
	createUser(t, gdb, "Maria", "0722000001", "female", "Nairobi", 24)

	candidates, err := repo.FindCandidates(ctx, requester, 25, 23, "Nairobi")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCandidatesExcludesSelf(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	requester := createUser(t, gdb, "John", "0711000001", "male", "Nairobi", 24)

	// a lone user can never match themselves even with inverted data
	candidates, err := repo.FindCandidates(ctx, requester, 18, 80, "Nairobi")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
