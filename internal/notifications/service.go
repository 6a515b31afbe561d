package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
	"github.com/taeyang999/xposconnect-sub000/pkg/mailer"
	"github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

// Service defines notification delivery and list/read operations. Every
// operation is scoped to the recipient email.
type Service interface {
	Notify(ctx context.Context, notice Notice)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipient string, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
}

// Notice is one notification to deliver.
type Notice struct {
	RecipientEmail string
	Type           enums.NotificationType
	Title          string
	Message        string
	Link           string
	// Email also sends the notice through the mailer.
	Email bool
}

// ServiceParams groups the notification dependencies.
type ServiceParams struct {
	Repo      Repository
	Mailer    mailer.Sender
	Logger    *logger.Logger
	PublicURL string
}

type service struct {
	repo      Repository
	mailer    mailer.Sender
	logg      *logger.Logger
	publicURL string
}

// ListParams configures pagination for notifications.
type ListParams struct {
	Recipient  string
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
	Unread int64                 `json:"unread"`
}

// NewService wires notifications dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      params.Repo,
		mailer:    params.Mailer,
		logg:      logg,
		publicURL: strings.TrimRight(params.PublicURL, "/"),
	}, nil
}

// Notify stores the in-app row and optionally emails the recipient. Failures
// are logged, never returned.
func (s *service) Notify(ctx context.Context, notice Notice) {
	recipient := auth.NormalizeEmail(notice.RecipientEmail)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"recipient": recipient,
		"type":      notice.Type,
	})
	if recipient == "" || strings.TrimSpace(notice.Title) == "" {
		s.logg.Warn(ctx, "notification skipped: recipient and title required")
		return
	}
	if !notice.Type.IsValid() {
		notice.Type = enums.NotificationTypeInfo
	}

	row := &models.Notification{
		RecipientEmail: recipient,
		Type:           notice.Type,
		Title:          notice.Title,
		Message:        notice.Message,
	}
	if notice.Link != "" {
		link := notice.Link
		row.Link = &link
	}

	var errs []error
	if err := s.repo.Create(ctx, row); err != nil {
		errs = append(errs, fmt.Errorf("store notification: %w", err))
	}
	if notice.Email {
		errs = append(errs, s.email(ctx, recipient, notice))
	}
	if err := multierr.Combine(errs...); err != nil {
		s.logg.Error(ctx, "notification delivery failed", err)
	}
}

func (s *service) email(ctx context.Context, recipient string, notice Notice) error {
	if s.mailer == nil {
		return errors.New("send notification email: mailer not configured")
	}
	body := notice.Message
	if notice.Link != "" {
		body += "\n\n" + s.publicURL + notice.Link
	}
	err := s.mailer.Send(ctx, mailer.Message{
		To:      []string{recipient},
		Subject: notice.Title,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	recipient := auth.NormalizeEmail(params.Recipient)
	if recipient == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}

	query := listNotificationsParams{
		Recipient:  recipient,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
		Unread: unread,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, recipient string, notificationID uuid.UUID) error {
	recipient = auth.NormalizeEmail(recipient)
	if recipient == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipient, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.NotFound("notification")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	recipient = auth.NormalizeEmail(recipient)
	if recipient == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}

	count, err := s.repo.MarkAllRead(ctx, recipient, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
