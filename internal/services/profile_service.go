package services

import (
	"context"

	"akun/internal/apperr"
	"akun/internal/models"
	"akun/internal/repositories"
	"akun/internal/session"
	"akun/internal/validation"

	"github.com/sirupsen/logrus"
)

// ProfileService lets an authenticated user view, update and delete their
// own account.
type ProfileService struct {
	userRepo repositories.UserRepository
	auth     *AuthService
	sessions session.Store
	events   EventPublisher
	logger   *logrus.Logger
}

// NewProfileService creates a new ProfileService. events may be nil.
func NewProfileService(userRepo repositories.UserRepository, auth *AuthService, sessions session.Store, events EventPublisher, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		auth:     auth,
		sessions: sessions,
		events:   events,
		logger:   orStandard(logger),
	}
}

// View returns the current state of the session actor.
func (s *ProfileService) View(sess *models.Session) (*models.User, error) {
	if sess == nil || sess.Actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return s.userRepo.GetByID(sess.Actor.ID)
}

// Update changes the name and email of targetID. Nothing is written unless
// the actor owns the profile and the input is valid.
func (s *ProfileService) Update(sess *models.Session, targetID, name, email string) (*models.User, error) {
	if err := authorize(sess, targetID); err != nil {
		return nil, err
	}

	fields, err := validation.ValidateProfileUpdate(name, email, targetID, s.userRepo)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateProfile(targetID, fields.Name, fields.Email)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("profile updated")
	publish(s.events, s.logger, EventUserProfileUpdated, userEvent{ID: user.ID, Email: user.Email})
	return user, nil
}

// Delete removes the account of targetID after re-checking the password and
// revokes every session of that user.
func (s *ProfileService) Delete(ctx context.Context, sess *models.Session, targetID, password string) error {
	if err := authorize(sess, targetID); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return err
	}

	verify := func(candidate string) bool { return s.auth.VerifyPassword(user, candidate) }
	if err := validation.ValidateAccountDeletion(password, verify); err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}

	// The session middleware reloads the actor on every request, so a failed
	// revocation still leaves the deleted user unable to authenticate.
	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("failed to revoke sessions of deleted user")
	}

	s.logger.WithField("user_id", user.ID).Info("account deleted")
	publish(s.events, s.logger, EventUserDeleted, userEvent{ID: user.ID})
	return nil
}

func authorize(sess *models.Session, targetID string) error {
	if sess == nil || sess.Actor == nil {
		return apperr.ErrUnauthenticated
	}
	if !sess.Owns(targetID) {
		return &apperr.AuthorizationError{ActorID: sess.Actor.ID, SubjectID: targetID}
	}
	return nil
}
