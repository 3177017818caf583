package db

import (
	"time"
)

// Registration stages a user moves through. The stage only ever moves
// forward; StageRank defines the ordering.
const (
	StageBasic     = "basic"
	StageDetails   = "details"
	StageCompleted = "completed"
)

// StageRank returns the funnel position of a registration stage.
// Unknown stages rank below basic.
func StageRank(stage string) int {
	switch stage {
	case StageBasic:
		return 1
	case StageDetails:
		return 2
	case StageCompleted:
		return 3
	}
	return 0
}

// User is a registered profile, keyed by the phone number of the SIM
// that sent the start# message.
type User struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"size:50;not null"`
	PhoneNumber       string `gorm:"uniqueIndex;size:15;not null"`
	Age               int    `gorm:"not null"`
	Gender            string `gorm:"size:16;not null"`
	County            string `gorm:"size:50"`
	Town              string `gorm:"size:50;index"`
	RegistrationStage string `gorm:"size:16;default:basic"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Details *UserDetail `gorm:"foreignKey:UserID"`
}

// UserDetail is the optional 1:1 extension filled in by the details#
// and myself commands.
type UserDetail struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	UserID          uint64 `gorm:"uniqueIndex;not null"`
	EducationLevel  string `gorm:"size:50"`
	Profession      string `gorm:"size:50"`
	MaritalStatus   string `gorm:"size:16"`
	Religion        string `gorm:"size:50"`
	Ethnicity       string `gorm:"size:50"`
	SelfDescription string `gorm:"type:text"`
	UpdatedAt       time.Time
}

// MatchRequest is one pagination session opened by a match# command.
//
// total_matches and the ProfileMatch ordering are fixed at creation;
// current_offset is the only mutable field and advances by PageSize on
// every served page, including a short final page. The overshoot past
// total_matches is the terminal condition for NEXT.
//
// At most one row per user has is_active=true: opening a new session
// deactivates the previous ones in the same transaction.
type MatchRequest struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	UserID        uint64 `gorm:"index:idx_user_active,priority:1;not null"`
	AgeRangeStart int
	AgeRangeEnd   int
	Town          string `gorm:"size:50"`
	TotalMatches  int    `gorm:"default:0"`
	CurrentOffset int    `gorm:"default:0"`
	PageSize      int    `gorm:"default:3"`
	IsActive      bool   `gorm:"default:true;index:idx_user_active,priority:2"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Matches []ProfileMatch `gorm:"foreignKey:MatchRequestID"`
}

// HasMoreMatches reports whether the session still has unserved pages.
func (m *MatchRequest) HasMoreMatches() bool {
	return m.CurrentOffset < m.TotalMatches
}

// ProfileMatch pins one matched user at a fixed position within a
// session. Immutable once created; position order is the serving order.
type ProfileMatch struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	MatchRequestID uint64 `gorm:"index:idx_request_position,priority:1;not null"`
	MatchedUserID  uint64 `gorm:"not null"`
	Position       int    `gorm:"index:idx_request_position,priority:2;not null"`
	Sent           bool   `gorm:"default:false"`
	CreatedAt      time.Time

	MatchedUser User `gorm:"foreignKey:MatchedUserID"`
}

// Notification is a one-way interest signal queued for the delivery
// channel. SenderID 0 means a system-originated actor. Rows are never
// mutated after creation.
type Notification struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	SenderID    uint64
	RecipientID uint64 `gorm:"index;not null"`
	PhoneNumber string `gorm:"size:15"`
	Content     string `gorm:"type:text"`
	CreatedAt   time.Time
}
