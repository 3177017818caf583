package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo profiles.
//
// Behavior:
//  1. Clears all domain tables.
//  2. Creates 24 users (12 male, 12 female) spread over a few towns and
//     ages, each at a random registration stage.
//  3. Users past the basic stage get a detail row; completed users also
//     get a self description.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	tables := []string{"notifications", "profile_matches", "match_requests", "user_details", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}

	log.Println("Cleared existing data")

	maleNames := []string{"John", "Peter", "James", "Kevin", "Brian", "Dennis", "Samuel", "Victor", "Collins", "Felix", "Martin", "Anthony"}
	femaleNames := []string{"Mary", "Grace", "Faith", "Cynthia", "Joyce", "Janet", "Lilian", "Agnes", "Mercy", "Naomi", "Diana", "Esther"}
	towns := []struct{ County, Town string }{
		{"Nairobi", "Nairobi"},
		{"Kisumu", "Kisumu"},
		{"Mombasa", "Mombasa"},
		{"Nakuru", "Nakuru"},
	}
	stages := []string{StageBasic, StageDetails, StageCompleted}
	professions := []string{"Teacher", "Driver", "Nurse", "Farmer", "Trader", "Engineer"}
	educations := []string{"Primary", "Secondary", "Diploma", "Degree"}
	religions := []string{"Christian", "Muslim"}
	maritals := []string{"single", "married", "divorced"}

	names := append(append([]string{}, maleNames...), femaleNames...)
	for i, name := range names {
		gender := "male"
		if i >= len(maleNames) {
			gender = "female"
		}
		loc := towns[i%len(towns)]
		stage := stages[r.Intn(len(stages))]

		user := User{
			Name:              name,
			PhoneNumber:       fmt.Sprintf("07%08d", 10000000+i),
			Age:               20 + r.Intn(20),
			Gender:            gender,
			County:            loc.County,
			Town:              loc.Town,
			RegistrationStage: stage,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		if stage == StageBasic {
			continue
		}

		detail := UserDetail{
			UserID:         user.ID,
			EducationLevel: educations[r.Intn(len(educations))],
			Profession:     professions[r.Intn(len(professions))],
			MaritalStatus:  maritals[r.Intn(len(maritals))],
			Religion:       religions[r.Intn(len(religions))],
			Ethnicity:      "Mijikenda",
		}
		if stage == StageCompleted {
			detail.SelfDescription = "easy going, hardworking and ready to settle down"
		}
		if err := db.Create(&detail).Error; err != nil {
			return fmt.Errorf("failed to seed user detail: %w", err)
		}
	}

	log.Printf("Seeded %d users.", len(names))
	return nil
}
