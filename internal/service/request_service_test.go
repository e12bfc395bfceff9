package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"od-portal/backend/internal/dto"
	"od-portal/backend/internal/model"
	pkgerrors "od-portal/backend/pkg/errors"
)

func setupRequestService() (RequestService, *mockStore) {
	st, repo := newMockStore()
	st.students.add(&model.Student{StudentID: "stu-1", Name: "Asha", Batch: 2022, Semester: 5})
	st.days.Create(context.Background(), &model.ExceptionDay{Date: date(2025, 3, 14), Reason: "Holi"})
	return NewRequestService(repo, zap.NewNop()), st
}

func TestRequestService_CreateLeave_Success(t *testing.T) {
	svc, st := setupRequestService()

	resp, err := svc.CreateLeave(context.Background(), "stu-1", &dto.CreateLeaveRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Reason:    "Fever",
	})
	if err != nil {
		t.Fatalf("CreateLeave should succeed: %v", err)
	}
	if resp.Status != model.StatusPending {
		t.Errorf("expected status Pending, got %s", resp.Status)
	}
	if resp.DurationType != model.DurationFull {
		t.Errorf("duration should default to full, got %s", resp.DurationType)
	}
	if len(st.leaves.created) != 1 {
		t.Errorf("expected 1 stored request, got %d", len(st.leaves.created))
	}
}

func TestRequestService_CreateLeave_ExceptionDayCollision(t *testing.T) {
	svc, st := setupRequestService()

	_, err := svc.CreateLeave(context.Background(), "stu-1", &dto.CreateLeaveRequest{
		StartDate: "2025-03-13",
		EndDate:   "2025-03-15",
		Reason:    "Family function",
	})
	ve, ok := pkgerrors.IsValidation(err)
	if !ok {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	if len(ve.Collisions) != 1 || ve.Collisions[0].Reason != "Holi" {
		t.Errorf("expected the Holi collision, got %+v", ve.Collisions)
	}
	if len(st.leaves.created) != 0 {
		t.Error("a rejected request must not be stored")
	}
}

func TestRequestService_CreateOD_InvertedRange(t *testing.T) {
	svc, st := setupRequestService()

	_, err := svc.CreateOD(context.Background(), "stu-1", &dto.CreateODRequest{
		StartDate: "2025-03-12",
		EndDate:   "2025-03-10",
		EventName: "Hackathon",
	})
	if _, ok := pkgerrors.IsValidation(err); !ok {
		t.Errorf("expected a ValidationError, got %v", err)
	}
	if len(st.ods.created) != 0 {
		t.Error("a rejected request must not be stored")
	}
}

func TestRequestService_CreateOD_HalfDay(t *testing.T) {
	svc, _ := setupRequestService()
	ctx := context.Background()

	_, err := svc.CreateOD(ctx, "stu-1", &dto.CreateODRequest{
		StartDate: "2025-03-10", EndDate: "2025-03-11", DurationType: "half", EventName: "Symposium",
	})
	if !errors.Is(err, ErrHalfDayMultiDate) {
		t.Errorf("expected ErrHalfDayMultiDate, got %v", err)
	}

	resp, err := svc.CreateOD(ctx, "stu-1", &dto.CreateODRequest{
		StartDate: "2025-03-10", EndDate: "2025-03-10", DurationType: "half", EventName: "Symposium",
	})
	if err != nil {
		t.Fatalf("a single-day half-day OD should succeed: %v", err)
	}
	if resp.EventName != "Symposium" || resp.DurationType != model.DurationHalf {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestRequestService_UnknownStudent(t *testing.T) {
	svc, _ := setupRequestService()

	_, err := svc.CreateLeave(context.Background(), "ghost", &dto.CreateLeaveRequest{
		StartDate: "2025-03-10", EndDate: "2025-03-10", Reason: "x",
	})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestRequestService_ExceptionDaysUnavailable(t *testing.T) {
	svc, st := setupRequestService()
	st.days.err = errors.New("timeout")

	_, err := svc.CreateLeave(context.Background(), "stu-1", &dto.CreateLeaveRequest{
		StartDate: "2025-03-10", EndDate: "2025-03-10", Reason: "x",
	})
	if !pkgerrors.IsDataUnavailable(err) {
		t.Errorf("expected DataUnavailableError, got %v", err)
	}
}

func TestRequestService_ListMine(t *testing.T) {
	svc, _ := setupRequestService()
	ctx := context.Background()

	if _, err := svc.CreateLeave(ctx, "stu-1", &dto.CreateLeaveRequest{StartDate: "2025-03-10", EndDate: "2025-03-10", Reason: "x"}); err != nil {
		t.Fatalf("CreateLeave: %v", err)
	}
	resp, err := svc.ListMine(ctx, "stu-1")
	if err != nil {
		t.Fatalf("ListMine should succeed: %v", err)
	}
	if len(resp.Leaves) != 1 || resp.ODs == nil || len(resp.ODs) != 0 {
		t.Errorf("expected 1 leave and an empty OD list, got %+v", resp)
	}
}
