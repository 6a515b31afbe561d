package permissions

import (
	"context"
	"strings"

	"github.com/taeyang999/xposconnect-sub000/internal/audit"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	dbtypes "github.com/taeyang999/xposconnect-sub000/pkg/db/types"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/metrics"
)

// Service resolves caller access and administers templates and assignments.
type Service interface {
	// Resolve never fails. Lookup errors degrade to fewer capabilities.
	Resolve(ctx context.Context, identity *auth.Identity) Access
	// RoleDefaults returns the capabilities a non-override user of role would get today.
	RoleDefaults(ctx context.Context, role enums.AppRole) (Set, error)
	Template(ctx context.Context) (*TemplateView, error)
	SaveTemplate(ctx context.Context, actor Access, input TemplateInput) (*TemplateView, error)
	ListAssignments(ctx context.Context) ([]AssignmentView, error)
	SetAssignment(ctx context.Context, actor Access, email string, input AssignmentInput) (*AssignmentView, error)
	EnsureAssignment(ctx context.Context, actorEmail, email string, role enums.AppRole) (*models.PermissionAssignment, error)
	AssignRole(ctx context.Context, actorEmail, email string, role enums.AppRole) (*models.PermissionAssignment, error)
}

// ServiceParams groups the permission service dependencies.
type ServiceParams struct {
	Repo    Repository
	Store   TemplateStore
	Audit   audit.Recorder
	Logger  *logger.Logger
	Metrics *metrics.PermissionMetrics
}

type service struct {
	repo    Repository
	store   TemplateStore
	audit   audit.Recorder
	logg    *logger.Logger
	metrics *metrics.PermissionMetrics
}

// NewService wires the permission service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "permissions repository required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "template store required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		store:   params.Store,
		audit:   params.Audit,
		logg:    logg,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Resolve(ctx context.Context, identity *auth.Identity) Access {
	if identity == nil || identity.Email == "" {
		s.metrics.IncResolution(metrics.SourceAnonymous)
		return Anonymous()
	}
	ctx = s.logg.WithUserEmail(ctx, identity.Email)

	assignment, err := s.repo.FindAssignment(ctx, identity.Email)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "permission assignment lookup failed; resolving without it")
		assignment = nil
	}

	state := ResolveRole(identity, assignment)
	if state.IsAdmin {
		s.metrics.IncResolution(metrics.SourceAdmin)
		return NewAccess(identity.Email, state, AllTrue())
	}

	template, err := s.store.Load(ctx)
	if err != nil {
		s.logg.Error(ctx, "role template load failed; denying all capabilities", err)
		s.metrics.IncResolution(metrics.SourceError)
		return NewAccess(identity.Email, state, NewSet())
	}
	if template == nil {
		s.metrics.IncResolution(metrics.SourceFallback)
	} else {
		s.metrics.IncResolution(metrics.SourceTemplate)
	}
	return NewAccess(identity.Email, state, ResolveEffectivePermissions(state.UserRole, false, template))
}

func (s *service) RoleDefaults(ctx context.Context, role enums.AppRole) (Set, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	template, err := s.store.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role template")
	}
	return ResolveEffectivePermissions(role, role == enums.AppRoleAdmin, template), nil
}

func (s *service) Template(ctx context.Context) (*TemplateView, error) {
	template, err := s.store.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role template")
	}
	return templateView(template), nil
}

func (s *service) SaveTemplate(ctx context.Context, actor Access, input TemplateInput) (*TemplateView, error) {
	if !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can edit role templates")
	}

	next := NewRoleTemplate()
	for role, flags := range input.Roles {
		if !role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
				WithDetails(map[string]any{"role": role})
		}
		for c, v := range flags {
			if !c.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid capability").
					WithDetails(map[string]any{"capability": c})
			}
			next.SetFlag(role, c, FlagFromPtr(v))
		}
	}
	next.UpdatedBy = actor.Email

	previous, err := s.store.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role template")
	}
	if err := s.store.Save(ctx, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save role template")
	}

	action := enums.AuditActionUpdate
	if previous == nil {
		action = enums.AuditActionCreate
		previous = NewRoleTemplate()
	}
	audit.RecordBestEffort(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypeRoleTemplate,
		EntityID:   models.RoleTemplateKey,
		Action:     action,
		ActorEmail: actor.Email,
		Changes:    audit.ComputeChanges(templateSnapshot(previous), templateSnapshot(next)),
	})
	return templateView(next), nil
}

func (s *service) ListAssignments(ctx context.Context) ([]AssignmentView, error) {
	rows, err := s.repo.ListAssignments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list permission assignments")
	}
	template, err := s.store.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role template")
	}
	out := make([]AssignmentView, 0, len(rows))
	for i := range rows {
		out = append(out, assignmentView(&rows[i], template))
	}
	return out, nil
}

// SetAssignment updates the assignment for email, creating it with the
// employee role on first touch.
func (s *service) SetAssignment(ctx context.Context, actor Access, email string, input AssignmentInput) (*AssignmentView, error) {
	if !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only administrators can change permissions")
	}
	email = auth.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email required")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	for c := range input.Overrides {
		if !c.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid capability").
				WithDetails(map[string]any{"capability": c})
		}
	}

	existing, err := s.repo.FindAssignment(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load permission assignment")
	}
	action := enums.AuditActionUpdate
	if existing == nil {
		action = enums.AuditActionCreate
		existing, err = s.EnsureAssignment(ctx, actor.Email, email, enums.AppRoleEmployee)
		if err != nil {
			return nil, err
		}
	}
	before := assignmentSnapshot(existing)

	updated := *existing
	updated.Overrides = dbtypes.FlagMap{}
	for k, v := range existing.Overrides {
		updated.Overrides[k] = v
	}
	if input.Role != nil {
		updated.Role = *input.Role
	}
	for c, v := range input.Overrides {
		if v == nil {
			delete(updated.Overrides, string(c))
			continue
		}
		updated.Overrides[string(c)] = *v
	}
	by := actor.Email
	updated.UpdatedBy = &by

	if err := s.repo.UpdateAssignment(ctx, &updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update permission assignment")
	}

	changes := audit.ComputeChanges(before, assignmentSnapshot(&updated))
	if action == enums.AuditActionCreate {
		changes = audit.CreateChanges(assignmentSnapshot(&updated))
	}
	audit.RecordBestEffort(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypePermissionAssignment,
		EntityID:   email,
		Action:     action,
		ActorEmail: actor.Email,
		Changes:    changes,
	})

	template, err := s.store.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role template")
	}
	view := assignmentView(&updated, template)
	return &view, nil
}

// EnsureAssignment returns the existing assignment or creates one with role.
func (s *service) EnsureAssignment(ctx context.Context, actorEmail, email string, role enums.AppRole) (*models.PermissionAssignment, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	row := &models.PermissionAssignment{
		UserEmail: auth.NormalizeEmail(email),
		Role:      role,
		Overrides: dbtypes.FlagMap{},
	}
	if actorEmail != "" {
		row.UpdatedBy = &actorEmail
	}
	assignment, err := s.repo.EnsureAssignment(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure permission assignment")
	}
	return assignment, nil
}

// AssignRole gives email the role, creating the assignment on first touch or
// switching an existing one. Overrides survive a switch, which is audited.
func (s *service) AssignRole(ctx context.Context, actorEmail, email string, role enums.AppRole) (*models.PermissionAssignment, error) {
	assignment, err := s.EnsureAssignment(ctx, actorEmail, email, role)
	if err != nil {
		return nil, err
	}
	if assignment.Role == role {
		return assignment, nil
	}

	before := assignmentSnapshot(assignment)
	updated := *assignment
	updated.Role = role
	if actorEmail != "" {
		updated.UpdatedBy = &actorEmail
	}
	if err := s.repo.UpdateAssignment(ctx, &updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update permission assignment")
	}
	audit.RecordBestEffort(ctx, s.audit, s.logg, audit.Entry{
		EntityType: enums.EntityTypePermissionAssignment,
		EntityID:   updated.UserEmail,
		Action:     enums.AuditActionUpdate,
		ActorEmail: actorEmail,
		Changes:    audit.ComputeChanges(before, assignmentSnapshot(&updated)),
	})
	return &updated, nil
}

func templateView(template *RoleTemplate) *TemplateView {
	view := &TemplateView{
		Exists:    template != nil,
		Template:  template,
		Effective: make(map[enums.AppRole]Set, 3),
	}
	if template == nil {
		view.Template = NewRoleTemplate()
	}
	for _, role := range enums.AppRoles() {
		view.Effective[role] = ResolveEffectivePermissions(role, role == enums.AppRoleAdmin, template)
	}
	return view
}

func assignmentView(a *models.PermissionAssignment, template *RoleTemplate) AssignmentView {
	overrides := make(map[Capability]bool, len(a.Overrides))
	for k, v := range a.Overrides {
		overrides[Capability(k)] = v
	}
	return AssignmentView{
		ID:        a.ID,
		Email:     a.UserEmail,
		Role:      a.Role,
		Overrides: overrides,
		Effective: ResolveEffectivePermissions(a.Role, a.Role == enums.AppRoleAdmin, template),
		UpdatedAt: a.UpdatedAt,
	}
}
