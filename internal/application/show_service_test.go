package application

import (
	"context"
	"errors"
	"testing"
)

func TestShowService_CreateShow(t *testing.T) {
	t.Parallel()

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		svc := NewShowService(newShowRepositoryStub(), nil, nil)
		if _, err := svc.CreateShow(context.Background(), CreateShowParams{Title: "Чайка"}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		t.Parallel()

		svc := NewShowService(newShowRepositoryStub(), nil, nil)
		_, err := svc.CreateShow(context.Background(), CreateShowParams{Principal: admin, Title: "  "})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("maps duplicate titles to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()

		ids := []string{"show-1", "show-2"}
		svc := NewShowService(newShowRepositoryStub(), func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}, nil)

		if _, err := svc.CreateShow(context.Background(), CreateShowParams{Principal: admin, Title: "Чайка"}); err != nil {
			t.Fatalf("first CreateShow failed: %v", err)
		}
		if _, err := svc.CreateShow(context.Background(), CreateShowParams{Principal: admin, Title: "Чайка"}); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestShowService_Qualifications(t *testing.T) {
	t.Parallel()

	newSeeded := func(t *testing.T) (*ShowService, *showRepositoryStub) {
		t.Helper()
		repo := newShowRepositoryStub()
		svc := NewShowService(repo, func() string { return "show-1" }, nil)
		if _, err := svc.CreateShow(context.Background(), CreateShowParams{Principal: admin, Title: "Чайка"}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		return svc, repo
	}

	t.Run("replaces the qualified set", func(t *testing.T) {
		t.Parallel()

		svc, _ := newSeeded(t)
		err := svc.SetQualifications(context.Background(), SetQualificationsParams{
			Principal: admin, ShowID: "show-1", EmployeeIDs: []string{"e1", "e2"},
		})
		if err != nil {
			t.Fatalf("SetQualifications failed: %v", err)
		}

		ids, err := svc.QualifiedEmployeeIDs(context.Background(), "Чайка")
		if err != nil {
			t.Fatalf("QualifiedEmployeeIDs failed: %v", err)
		}
		if len(ids) != 2 || ids[0] != "e1" || ids[1] != "e2" {
			t.Fatalf("expected [e1 e2], got %v", ids)
		}
	})

	t.Run("toggle adds then removes a link", func(t *testing.T) {
		t.Parallel()

		svc, _ := newSeeded(t)
		if err := svc.ToggleQualification(context.Background(), admin, "show-1", "e1"); err != nil {
			t.Fatalf("toggle on failed: %v", err)
		}
		ids, _ := svc.QualifiedEmployeeIDs(context.Background(), "Чайка")
		if len(ids) != 1 {
			t.Fatalf("expected one link after toggle on, got %v", ids)
		}

		if err := svc.ToggleQualification(context.Background(), admin, "show-1", "e1"); err != nil {
			t.Fatalf("toggle off failed: %v", err)
		}
		ids, _ = svc.QualifiedEmployeeIDs(context.Background(), "Чайка")
		if len(ids) != 0 {
			t.Fatalf("expected no links after toggle off, got %v", ids)
		}
	})

	t.Run("surfaces ErrNotFound for unknown shows", func(t *testing.T) {
		t.Parallel()

		svc, _ := newSeeded(t)
		err := svc.SetQualifications(context.Background(), SetQualificationsParams{
			Principal: admin, ShowID: "missing", EmployeeIDs: []string{"e1"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestShowService_RenameShow(t *testing.T) {
	t.Parallel()

	t.Run("keeps qualification links across a rename", func(t *testing.T) {
		t.Parallel()

		repo := newShowRepositoryStub()
		svc := NewShowService(repo, func() string { return "show-1" }, nil)
		if _, err := svc.CreateShow(context.Background(), CreateShowParams{Principal: admin, Title: "Чайка"}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		if err := svc.SetQualifications(context.Background(), SetQualificationsParams{
			Principal: admin, ShowID: "show-1", EmployeeIDs: []string{"e1"},
		}); err != nil {
			t.Fatalf("SetQualifications failed: %v", err)
		}

		if _, err := svc.RenameShow(context.Background(), RenameShowParams{Principal: admin, ID: "show-1", Title: "Три сестры"}); err != nil {
			t.Fatalf("RenameShow failed: %v", err)
		}

		ids, err := svc.QualifiedEmployeeIDs(context.Background(), "Три сестры")
		if err != nil {
			t.Fatalf("QualifiedEmployeeIDs failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != "e1" {
			t.Fatalf("expected link to survive rename, got %v", ids)
		}
	})
}
