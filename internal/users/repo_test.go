package users

import (
	"context"
	"testing"

	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
	"github.com/taeyang999/xposconnect-sub000/pkg/db"
	"github.com/taeyang999/xposconnect-sub000/pkg/db/dbtest"
	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))

	created, err := repo.Create(ctx, CreateUserDTO{Email: " Ada@Example.com ", FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Email != "ada@example.com" || created.Status != enums.UserStatusActive {
		t.Fatalf("unexpected defaults %+v", created)
	}

	found, err := repo.FindByEmail(ctx, "ADA@example.com")
	if err != nil || found.ID != created.ID {
		t.Fatalf("find by email: %+v err=%v", found, err)
	}

	if _, err := repo.Create(ctx, CreateUserDTO{Email: "ada@example.com"}); !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !db.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))
	for _, dto := range []CreateUserDTO{
		{Email: "zed@example.com", FirstName: "Zed"},
		{Email: "amy@example.com", FirstName: "Amy", LastName: "Baker"},
		{Email: "old@example.com", FirstName: "Old", Status: enums.UserStatusInactive},
	} {
		if _, err := repo.Create(ctx, dto); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Email != "amy@example.com" {
		t.Fatalf("unexpected order %+v", all)
	}

	active, _ := repo.List(ctx, ListFilter{Status: enums.UserStatusActive})
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}

	search, _ := repo.List(ctx, ListFilter{Search: "BAK"})
	if len(search) != 1 || search[0].Email != "amy@example.com" {
		t.Fatalf("unexpected search result %+v", search)
	}
}

func TestSyncIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))

	user, err := repo.SyncIdentity(ctx, &auth.Identity{Email: "boss@example.com", PlatformRole: "admin", FirstName: "Bo"})
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if user.PlatformRole == nil || *user.PlatformRole != "admin" || user.FirstName != "Bo" {
		t.Fatalf("unexpected synced user %+v", user)
	}

	user, err = repo.SyncIdentity(ctx, &auth.Identity{Email: "boss@example.com", FirstName: "Other", LastName: "Smith"})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	stored, _ := repo.FindByEmail(ctx, "boss@example.com")
	if stored.PlatformRole != nil {
		t.Fatal("platform role must follow the identity provider")
	}
	if stored.FirstName != "Bo" || stored.LastName != "Smith" {
		t.Fatalf("names should only fill blanks, got %q %q", stored.FirstName, stored.LastName)
	}
	if user.ID != stored.ID {
		t.Fatal("sync must not create a second profile")
	}
}
