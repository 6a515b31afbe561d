package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/internal/permissions"
	"github.com/taeyang999/xposconnect-sub000/internal/users"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/mailer"
)

// Service manages the employee directory.
type Service interface {
	List(ctx context.Context, actor permissions.Access, filter users.ListFilter) ([]EmployeeView, error)
	Invite(ctx context.Context, actor permissions.Access, input InviteInput) (*InviteResult, error)
	Update(ctx context.Context, actor permissions.Access, email string, input users.UpdateProfileDTO) (*EmployeeView, error)
	Assignable(ctx context.Context, actor permissions.Access) []Assignee
	SyncIdentity(ctx context.Context, identity *auth.Identity) (*models.User, error)
}

type profileStore interface {
	profileLister
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	SyncIdentity(ctx context.Context, identity *auth.Identity) (*models.User, error)
}

type roleAssigner interface {
	AssignRole(ctx context.Context, actorEmail, email string, role enums.AppRole) (*models.PermissionAssignment, error)
	RoleDefaults(ctx context.Context, role enums.AppRole) (permissions.Set, error)
}

type assignmentStore interface {
	assignmentLister
	FindAssignment(ctx context.Context, email string) (*models.PermissionAssignment, error)
}

// ServiceParams groups the employee service dependencies.
type ServiceParams struct {
	Profiles    profileStore
	Roles       roleAssigner
	Assignments assignmentStore
	Directory   *Directory
	Mailer      mailer.Sender
	Audit       audit.Recorder
	Logger      *logger.Logger
	PublicURL   string
}

type service struct {
	profiles    profileStore
	roles       roleAssigner
	assignments assignmentStore
	directory   *Directory
	mailer      mailer.Sender
	audit       audit.Recorder
	logg        *logger.Logger
	publicURL   string
}

// NewService wires the employee service.
func NewService(params ServiceParams) (Service, error) {
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if params.Roles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "permissions service required")
	}
	if params.Assignments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "permissions repository required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	directory := params.Directory
	if directory == nil {
		directory = NewDirectory(PrimaryLookup(params.Profiles), FallbackLookup(params.Assignments), logg, nil)
	}
	return &service{
		profiles:    params.Profiles,
		roles:       params.Roles,
		assignments: params.Assignments,
		directory:   directory,
		mailer:      params.Mailer,
		audit:       params.Audit,
		logg:        logg,
		publicURL:   strings.TrimRight(params.PublicURL, "/"),
	}, nil
}

func canManageEmployees(actor permissions.Access) bool {
	return actor.IsAdmin || actor.Can(permissions.CanManageEmployees)
}

func (s *service) List(ctx context.Context, actor permissions.Access, filter users.ListFilter) ([]EmployeeView, error) {
	if !canManageEmployees(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to list employees")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	rows, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list employees")
	}
	roles, err := s.roleIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeView, 0, len(rows))
	for _, u := range rows {
		out = append(out, newEmployeeView(u, roleFor(u, roles)))
	}
	return out, nil
}

func (s *service) roleIndex(ctx context.Context) (map[string]enums.AppRole, error) {
	rows, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list permission assignments")
	}
	out := make(map[string]enums.AppRole, len(rows))
	for _, a := range rows {
		out[a.UserEmail] = a.Role
	}
	return out, nil
}

// roleFor mirrors the role resolution used for access checks.
func roleFor(u models.User, roles map[string]enums.AppRole) enums.AppRole {
	var assignment *models.PermissionAssignment
	if role, ok := roles[u.Email]; ok {
		assignment = &models.PermissionAssignment{UserEmail: u.Email, Role: role}
	}
	return roleOf(u, assignment)
}

func roleOf(u models.User, assignment *models.PermissionAssignment) enums.AppRole {
	identity := &auth.Identity{Email: u.Email}
	if u.PlatformRole != nil {
		identity.PlatformRole = *u.PlatformRole
	}
	return permissions.ResolveRole(identity, assignment).UserRole
}

// Invite creates the profile and assignment, then emails the invitee. The
// email is best effort and never fails the invite.
func (s *service) Invite(ctx context.Context, actor permissions.Access, input InviteInput) (*InviteResult, error) {
	if !canManageEmployees(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to invite employees")
	}
	email := auth.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if input.Role == enums.AppRoleAdmin && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can invite administrators")
	}

	// a pre-existing assignment is switched to the invited role below, so an
	// admin's role may only be replaced by another admin
	existing, err := s.assignments.FindAssignment(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load permission assignment")
	}
	if existing != nil && existing.Role == enums.AppRoleAdmin && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can change an administrator's role")
	}

	user, err := s.profiles.Create(ctx, users.CreateUserDTO{
		Email:      email,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Department: input.Department,
		Title:      input.Title,
		HireDate:   input.HireDate,
		Status:     enums.UserStatusActive,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an employee with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create employee")
	}

	assignment, err := s.roles.AssignRole(ctx, actor.Email, email, input.Role)
	if err != nil {
		return nil, err
	}

	if snap, err := audit.Snapshot(user); err == nil {
		audit.RecordBestEffort(ctx, s.audit, s.logg, audit.Entry{
			EntityType: enums.EntityTypeUser,
			EntityID:   email,
			Action:     enums.AuditActionCreate,
			ActorEmail: actor.Email,
			Changes:    audit.CreateChanges(snap),
		})
	}

	set, err := s.roles.RoleDefaults(ctx, assignment.Role)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "role defaults unavailable for invite response")
		set = permissions.NewSet()
	}

	result := &InviteResult{
		Employee:    newEmployeeView(*user, assignment.Role),
		Permissions: set,
		EmailSent:   s.sendInvite(ctx, *user, assignment.Role),
	}
	return result, nil
}

func (s *service) sendInvite(ctx context.Context, user models.User, role enums.AppRole) bool {
	if s.mailer == nil {
		return false
	}
	name := user.FirstName
	if name == "" {
		name = user.Email
	}
	msg := mailer.Message{
		To:      []string{user.Email},
		Subject: "You have been invited to OpsDesk",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYou have been added to OpsDesk as %s.\nSign in at %s/login with this email address.\n",
			name, role, s.publicURL,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "invitee", user.Email), "invite email failed", err)
		return false
	}
	return true
}

func (s *service) Update(ctx context.Context, actor permissions.Access, email string, input users.UpdateProfileDTO) (*EmployeeView, error) {
	if !canManageEmployees(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to edit employees")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	user, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("employee")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	assignment, err := s.assignments.FindAssignment(ctx, user.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load permission assignment")
	}
	if roleOf(*user, assignment) == enums.AppRoleAdmin && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can edit administrators")
	}
	before, _ := audit.Snapshot(user)

	input.Apply(user)
	if err := s.profiles.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee")
	}

	if after, err := audit.Snapshot(user); err == nil {
		delete(after, "updated_at")
		audit.RecordBestEffort(ctx, s.audit, s.logg, audit.Entry{
			EntityType: enums.EntityTypeUser,
			EntityID:   user.Email,
			Action:     enums.AuditActionUpdate,
			ActorEmail: actor.Email,
			Changes:    audit.ComputeChanges(before, after),
		})
	}

	view := newEmployeeView(*user, roleOf(*user, assignment))
	return &view, nil
}

func (s *service) Assignable(ctx context.Context, actor permissions.Access) []Assignee {
	return s.directory.Assignable(ctx, actor)
}

func (s *service) SyncIdentity(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.profiles.SyncIdentity(ctx, identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync profile")
	}
	return user, nil
}
