package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/models"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
	"github.com/taeyang999/xposconnect-sub000/pkg/mailer"
	paginationpkg "github.com/taeyang999/xposconnect-sub000/pkg/pagination"
)

type fakeRepository struct {
	createFn      func(ctx context.Context, notification *models.Notification) error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, recipient string, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, recipient string, now time.Time) (int64, error)
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, recipient string) (int64, error) {
	return 0, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, recipient string, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, recipient, notificationID, now)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, recipient string, now time.Time) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, recipient, now)
	}
	return 0, nil
}

type senderFunc func(ctx context.Context, msg mailer.Message) error

func (f senderFunc) Send(ctx context.Context, msg mailer.Message) error { return f(ctx, msg) }

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(ServiceParams{Repo: repo})
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	first := models.Notification{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	second := models.Notification{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			if params.Recipient != "tech@example.com" {
				t.Fatalf("expected normalized recipient, got %q", params.Recipient)
			}
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}

	svc := newServiceWithRepo(repo)
	result, err := svc.List(context.Background(), ListParams{Recipient: " Tech@Example.com", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("invalid cursor %q: %v", result.Cursor, err)
	}
	if decoded.ID != second.ID {
		t.Fatalf("expected cursor id %s got %s", second.ID, decoded.ID)
	}
}

func TestService_ListNotificationsInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{Recipient: "a@example.com", Cursor: "bad"})
	if err == nil {
		t.Fatal("expected error for invalid cursor")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", code)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, recipient string, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), "a@example.com", uuid.New()); err == nil {
		t.Fatal("expected not found error")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), "", uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, recipient string, now time.Time) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	if _, err := svc.MarkAllRead(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNotifyNeverFails(t *testing.T) {
	var stored []*models.Notification
	var sent []mailer.Message
	repo := &fakeRepository{createFn: func(_ context.Context, n *models.Notification) error {
		stored = append(stored, n)
		return errors.New("db down")
	}}
	svc, _ := NewService(ServiceParams{
		Repo: repo,
		Mailer: senderFunc(func(_ context.Context, msg mailer.Message) error {
			sent = append(sent, msg)
			return errors.New("smtp down")
		}),
		PublicURL: "https://ops.example.com/",
	})

	svc.Notify(context.Background(), Notice{
		RecipientEmail: "Tech@Example.com",
		Type:           enums.NotificationTypeAssignment,
		Title:          "New service log",
		Message:        "You were assigned Boiler service",
		Link:           "/service-logs/1",
		Email:          true,
	})

	if len(stored) != 1 || stored[0].RecipientEmail != "tech@example.com" {
		t.Fatalf("expected one stored row, got %+v", stored)
	}
	if len(sent) != 1 || !strings.Contains(sent[0].Text, "https://ops.example.com/service-logs/1") {
		t.Fatalf("expected an email with the link, got %+v", sent)
	}

	svc.Notify(context.Background(), Notice{Title: "no recipient"})
	if len(stored) != 1 {
		t.Fatal("notice without recipient must be skipped")
	}
}

func TestNotificationsAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	svc, _ := NewService(ServiceParams{Repo: NewRepository(dbtest.New(t))})

	for _, title := range []string{"one", "two", "three"} {
		svc.Notify(ctx, Notice{RecipientEmail: "tech@example.com", Title: title, Type: "bogus"})
	}
	svc.Notify(ctx, Notice{RecipientEmail: "other@example.com", Title: "elsewhere"})

	page, err := svc.List(ctx, ListParams{Recipient: "tech@example.com", Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.Cursor == "" || page.Unread != 3 {
		t.Fatalf("unexpected first page %+v", page)
	}
	if page.Items[0].Type != enums.NotificationTypeInfo {
		t.Fatalf("unknown types should default to info, got %s", page.Items[0].Type)
	}

	if err := svc.MarkRead(ctx, "other@example.com", page.Items[0].ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("notifications are scoped to their recipient, got %v", err)
	}
	if err := svc.MarkRead(ctx, "tech@example.com", page.Items[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := svc.MarkRead(ctx, "tech@example.com", page.Items[0].ID); err != nil {
		t.Fatalf("marking twice should be a no-op, got %v", err)
	}

	count, err := svc.MarkAllRead(ctx, "tech@example.com")
	if err != nil || count != 2 {
		t.Fatalf("expected two remaining unread, got %d %v", count, err)
	}
	unread, _ := svc.List(ctx, ListParams{Recipient: "tech@example.com", UnreadOnly: true})
	if len(unread.Items) != 0 || unread.Unread != 0 {
		t.Fatalf("expected nothing unread, got %+v", unread)
	}
}

func TestDeleteReadBeforeKeepsUnread(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))
	old := time.Now().UTC().Add(-48 * time.Hour)

	read := &models.Notification{RecipientEmail: "a@example.com", Type: enums.NotificationTypeInfo, Title: "read", Message: "m", ReadAt: &old}
	unread := &models.Notification{RecipientEmail: "a@example.com", Type: enums.NotificationTypeInfo, Title: "unread", Message: "m"}
	for _, n := range []*models.Notification{read, unread} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	deleted, err := repo.DeleteReadBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil || deleted != 1 {
		t.Fatalf("expected one purged row, got %d %v", deleted, err)
	}
	remaining, err := repo.CountUnread(ctx, "a@example.com")
	if err != nil || remaining != 1 {
		t.Fatalf("unread notification must survive, got %d %v", remaining, err)
	}
}
