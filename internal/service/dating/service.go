package dating

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/app"
	"github.com/oggyb/penzi-exercise/internal/messages"
	"github.com/oggyb/penzi-exercise/internal/repository"
	"github.com/oggyb/penzi-exercise/internal/sms"
)

// Service dispatches inbound SMS commands to the registration, match,
// pagination and interest handlers. It contains the business logic on
// top of the repository and cache layers; every handler contains its
// own failures and always returns a renderable text.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	matchRepo *repository.MatchRepository
	notifRepo *repository.NotificationRepository
}

// Result is the JSON envelope returned per inbound message: a status
// tag plus either a response payload (dispatched commands) or a message
// payload (pre-dispatch failures). HTTPStatus is 200 for every
// dispatched command outcome, 400 otherwise.
type Result struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`

	HTTPStatus int `json:"-"`
}

func success(response string) Result {
	return Result{Status: "success", Response: response, HTTPStatus: http.StatusOK}
}

func failure(message string) Result {
	return Result{Status: "error", Message: message, HTTPStatus: http.StatusBadRequest}
}

// phoneLockTTL bounds how long one message may hold its phone's lock;
// phoneLockWait/phoneLockRetry bound how long a message waits its turn.
const (
	phoneLockTTL   = 5 * time.Second
	phoneLockWait  = 40
	phoneLockRetry = 50 * time.Millisecond
)

// NewDatingService creates the SMS dating service with dependencies
// from AppContext.
func NewDatingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		notifRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

// Dispatch classifies one inbound (phone, text) pair and routes it to
// its handler.
//
// Behavior:
//   - Messages from the same phone are serialized through a short Redis
//     lock so two of them cannot race one pagination cursor; messages
//     from different phones proceed in parallel. If the lock cannot be
//     taken in time the message proceeds anyway: the guarded cursor
//     update is the hard correctness check.
//   - Every command except registration requires the phone to be
//     registered; that is checked before the handler parses anything.
//   - All handler outcomes, success or validation failure, come back as
//     a success envelope; only unregistered phones and unsupported
//     commands are error envelopes.
func (s *Service) Dispatch(ctx context.Context, phoneNumber, text string) Result {
	s.appCtx.Logger.Debug("Dispatch called", "from", phoneNumber, "len", len(text))

	if token, ok := s.lockPhone(ctx, phoneNumber); ok {
		defer s.unlockPhone(ctx, phoneNumber, token)
	}

	cmd := sms.Classify(text)
	s.appCtx.Logger.Debug("classified command", "from", phoneNumber, "kind", cmd.Kind.String())

	if cmd.Kind == sms.KindUnrecognized {
		return failure("Unsupported command")
	}

	if cmd.Kind == sms.KindRegister {
		return success(s.handleRegistration(ctx, phoneNumber, cmd.Text))
	}

	user, err := s.userRepo.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure("User not registered")
		}
		s.appCtx.Logger.Error("user lookup failed", "from", phoneNumber, "err", err)
		return failure("Failed to process message")
	}

	switch cmd.Kind {
	case sms.KindDetailsSubmit:
		return success(s.handleDetails(ctx, user, cmd.Text))
	case sms.KindSelfDescribe:
		return success(s.handleSelfDescription(ctx, user, cmd.Text))
	case sms.KindMatchQuery:
		return success(s.handleMatchRequest(ctx, user, cmd.Text))
	case sms.KindNextPage:
		return success(s.handleNextMatches(ctx, user))
	case sms.KindProfileLookup:
		return success(s.handleProfileRequest(ctx, user, cmd.Text))
	case sms.KindDescribeLookup:
		return success(s.handleDescribeRequest(ctx, cmd.Text))
	case sms.KindInterestConfirm:
		return success(s.handleInterestConfirmation(ctx, user))
	}

	return failure("Unsupported command")
}

// lockPhone tries to take the phone's serialization lock under a fresh
// token. When it cannot acquire (Redis error or wait exhausted) the
// message proceeds without the lock, and the caller must not release a
// lock it never got: someone else still owns it.
func (s *Service) lockPhone(ctx context.Context, phoneNumber string) (string, bool) {
	token := uuid.NewString()
	for i := 0; i < phoneLockWait; i++ {
		ok, err := s.appCtx.RedisCache.AcquirePhoneLock(ctx, phoneNumber, token, phoneLockTTL)
		if err != nil {
			s.appCtx.Logger.Warn("phone lock unavailable", "from", phoneNumber, "err", err)
			return "", false
		}
		if ok {
			return token, true
		}
		time.Sleep(phoneLockRetry)
	}
	s.appCtx.Logger.Warn("phone lock wait exhausted", "from", phoneNumber)
	return "", false
}

func (s *Service) unlockPhone(ctx context.Context, phoneNumber, token string) {
	if err := s.appCtx.RedisCache.ReleasePhoneLock(ctx, phoneNumber, token); err != nil {
		s.appCtx.Logger.Warn("phone lock release failed", "from", phoneNumber, "err", err)
	}
}

// renderFailure logs an internal failure and folds its cause into the
// command's generic failure template.
func (s *Service) renderFailure(outcome messages.Outcome, op string, err error) string {
	s.appCtx.Logger.Error(op+" failed", "err", err)
	return messages.Render(outcome, err)
}
