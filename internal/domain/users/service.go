package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"appraisal/internal/apperror"
	"appraisal/internal/domain/auth"
)

// Presigner issues short-lived upload URLs for object storage.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error)
}

var pictureTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Service struct {
	store     StoreAPI
	tokens    *auth.Tokens
	Presigner Presigner
}

func NewService(store StoreAPI, tokens *auth.Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	var issues []apperror.FieldIssue
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		issues = append(issues, apperror.Field("email", "must be a valid email"))
	}
	if strings.TrimSpace(in.Name) == "" {
		issues = append(issues, apperror.Field("name", "is required"))
	}
	if len(in.Password) < auth.MinPasswordLength {
		issues = append(issues, apperror.Field("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength)))
	}
	role := auth.RoleEmployee
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := auth.ParseRole(in.Role)
		if !ok {
			issues = append(issues, apperror.Field("role", "must be one of Employee, Manager, HR Admin"))
		}
		role = parsed
	}
	if len(issues) > 0 {
		return Session{}, apperror.Validation(issues...)
	}
	if role != auth.RoleEmployee {
		if err := s.allowBootstrapRole(ctx); err != nil {
			return Session{}, err
		}
	}
	if in.ManagerID != "" {
		if _, err := s.store.UserByID(ctx, in.ManagerID); err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return Session{}, apperror.Validation(apperror.Field("managerId", "must reference an existing user"))
			}
			return Session{}, err
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, apperror.Unexpected("hash password", err)
	}
	user, err := s.store.CreateUser(ctx, NewUser{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
		ManagerID:    in.ManagerID,
	})
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// allowBootstrapRole permits a self-chosen elevated role only for the first
// account of an empty store. Later accounts start as Employee and are
// promoted through UpdateRole.
func (s *Service) allowBootstrapRole(ctx context.Context) error {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Forbidden(auth.RuleRole, "only an HR Admin may assign roles; register as Employee")
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return Session{}, apperror.Unauthenticated("invalid email or password")
		}
		return Session{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, apperror.Unauthenticated("invalid email or password")
	}
	return s.session(user)
}

func (s *Service) session(user User) (Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return Session{}, apperror.Unexpected("issue token", err)
	}
	return Session{User: user, Token: token}, nil
}

// ResolveActor loads the live user behind a token subject. A user that no
// longer exists is reported as Unauthenticated.
func (s *Service) ResolveActor(ctx context.Context, userID string) (auth.Actor, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return auth.Actor{}, apperror.Unauthenticated("user no longer exists")
		}
		return auth.Actor{}, err
	}
	if !user.Role.Valid() {
		return auth.Actor{}, apperror.Unauthenticated("user has no valid role")
	}
	return user.Actor(), nil
}

func (s *Service) ManagerIDOf(ctx context.Context, userID string) (string, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.ManagerID, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.UserByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Actor, in ProfileInput) (User, error) {
	if err := auth.Can(actor, auth.ActionProfileUpdate, auth.Resource{OwnerID: actor.ID}); err != nil {
		return User{}, err
	}
	changes := ProfileChanges{
		Name:           strings.TrimSpace(in.Name),
		Department:     strings.TrimSpace(in.Department),
		ProfilePicture: strings.TrimSpace(in.ProfilePicture),
	}
	if in.Password != "" {
		if len(in.Password) < auth.MinPasswordLength {
			return User{}, apperror.Validation(apperror.Field("password", fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength)))
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return User{}, apperror.Unexpected("hash password", err)
		}
		changes.PasswordHash = hash
	}
	return s.store.UpdateProfile(ctx, actor.ID, changes)
}

// PictureUpload returns a presigned PUT for a new profile picture. The
// returned key is stored through UpdateProfile once the upload completes.
func (s *Service) PictureUpload(ctx context.Context, actor auth.Actor, contentType string) (PictureUpload, error) {
	if err := auth.Can(actor, auth.ActionProfileUpdate, auth.Resource{OwnerID: actor.ID}); err != nil {
		return PictureUpload{}, err
	}
	if s.Presigner == nil {
		return PictureUpload{}, apperror.Unavailable("object storage is not configured")
	}
	ext, ok := pictureTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return PictureUpload{}, apperror.Validation(apperror.Field("contentType", "must be image/png, image/jpeg, image/webp or image/gif"))
	}
	key := path.Join("profile-pictures", actor.ID, uuid.NewString()+ext)
	url, expires, err := s.Presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return PictureUpload{}, apperror.Unexpected("presign upload", err)
	}
	return PictureUpload{Key: key, URL: url, Method: "PUT", ExpiresAt: expires}, nil
}

func (s *Service) List(ctx context.Context, actor auth.Actor) ([]User, error) {
	if err := auth.Can(actor, auth.ActionUsersManage, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// DirectReports lists users whose manager is the actor.
func (s *Service) DirectReports(ctx context.Context, actor auth.Actor) ([]User, error) {
	if err := auth.Can(actor, auth.ActionTeamRead, auth.Resource{}); err != nil {
		return nil, err
	}
	return s.store.ListDirectReports(ctx, actor.ID)
}

// ReportsOf lists direct reports without a policy check, for aggregation
// callers that already authorized the request.
func (s *Service) ReportsOf(ctx context.Context, managerID string) ([]User, error) {
	return s.store.ListDirectReports(ctx, managerID)
}

func (s *Service) All(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, actor auth.Actor, id string, in AssignmentInput) (User, error) {
	if err := auth.Can(actor, auth.ActionUsersManage, auth.Resource{}); err != nil {
		return User{}, err
	}
	var assignment Assignment
	var issues []apperror.FieldIssue
	if strings.TrimSpace(in.Role) != "" {
		role, ok := auth.ParseRole(in.Role)
		if !ok {
			issues = append(issues, apperror.Field("role", "must be one of Employee, Manager, HR Admin"))
		}
		assignment.Role = role
	}
	if in.ManagerID != nil {
		managerID := strings.TrimSpace(*in.ManagerID)
		if managerID == id {
			issues = append(issues, apperror.Field("managerId", "must not reference the user itself"))
		}
		assignment.ManagerID = &managerID
	}
	if assignment.Role == "" && assignment.ManagerID == nil && len(issues) == 0 {
		issues = append(issues, apperror.Field("role", "role or managerId is required"))
	}
	if len(issues) > 0 {
		return User{}, apperror.Validation(issues...)
	}

	if _, err := s.store.UserByID(ctx, id); err != nil {
		return User{}, err
	}
	if assignment.ManagerID != nil && *assignment.ManagerID != "" {
		if _, err := s.store.UserByID(ctx, *assignment.ManagerID); err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return User{}, apperror.Validation(apperror.Field("managerId", "must reference an existing user"))
			}
			return User{}, err
		}
	}
	return s.store.UpdateAssignment(ctx, id, assignment)
}

// Delete removes the user record only. Goals, evaluations and notifications
// that reference the user are left in place.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := auth.Can(actor, auth.ActionUsersManage, auth.Resource{}); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "userId", id, "by", actor.ID)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
