package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shutterbook/internal/auth"
	"shutterbook/internal/email"
	"shutterbook/internal/events"
	"shutterbook/internal/logger"
	"shutterbook/internal/metrics"
	"shutterbook/internal/plan"
	"shutterbook/internal/schedule"
	"shutterbook/internal/user"
)

var (
	ErrInvalidDate = errors.New("invalid booking date")
	ErrNotOwner    = errors.New("booking belongs to another user")
)

const listPageSize = 10

type Service interface {
	CreateBooking(ctx context.Context, userID int, req CreateBookingRequest) (*BookingWithDetails, error)
	CancelBooking(ctx context.Context, userID int, role string, bookingID int) (*Booking, error)
	MarkPaid(ctx context.Context, bookingID int, result PaymentResult) (*Booking, error)
	MarkConfirmed(ctx context.Context, bookingID int) (*Booking, error)
	MarkCompleted(ctx context.Context, bookingID int) (*Booking, error)
	GetBooking(ctx context.Context, userID int, role string, bookingID int) (*BookingWithDetails, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsForUser(ctx context.Context, targetUserID int) ([]Booking, error)
	ListAll(ctx context.Context, page int) (*BookingListPage, error)
}

type service struct {
	repo      Repository
	planRepo  plan.Repository
	userRepo  user.Repository
	emails    *email.Service
	publisher *events.Publisher
}

func NewService(
	repo Repository,
	planRepo plan.Repository,
	userRepo user.Repository,
	emails *email.Service,
	publisher *events.Publisher,
) Service {
	return &service{
		repo:      repo,
		planRepo:  planRepo,
		userRepo:  userRepo,
		emails:    emails,
		publisher: publisher,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID int, req CreateBookingRequest) (*BookingWithDetails, error) {
	bookingDate, err := time.Parse(schedule.DateOnly, req.BookingDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// Plan must resolve; its price is NOT re-read here. The price offered to
	// the customer at checkout travels with the request and is locked into
	// the booking, so later plan price edits never reprice existing bookings.
	if _, err := s.planRepo.GetByID(ctx, req.PlanID); err != nil {
		return nil, err
	}

	if req.NumberOfPeople == 0 {
		req.NumberOfPeople = 1
	}

	params := CreateBookingParams{
		Reference:        uuid.NewString(),
		UserID:           userID,
		PlanID:           req.PlanID,
		BookingDate:      bookingDate,
		StartTime:        req.Slot.StartTime,
		EndTime:          req.Slot.EndTime,
		Location:         req.Location,
		NumberOfPeople:   req.NumberOfPeople,
		SelectedAddOns:   plan.AddOnList(req.SelectedAddOns),
		PriceCents:       req.PriceCents,
		DownPaymentCents: req.DownPaymentCents,
		Notes:            req.Notes,
	}

	booking, err := s.repo.CreateBooking(ctx, params)
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.RecordSlotConflict()
			metrics.RecordBooking("conflict")
		}
		return nil, err
	}

	metrics.RecordBooking("created")

	detailed, err := s.repo.GetByIDWithDetails(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, detailed)

	return detailed, nil
}

func (s *service) notifyCreated(ctx context.Context, b *BookingWithDetails) {
	if s.emails != nil {
		if err := s.emails.SendBookingConfirmation(ctx, b.UserEmail, b.UserName, b.PlanName, b.Reference, b.Location, b.BookingDate, b.StartTime, b.EndTime); err != nil {
			logger.Errorf("Failed to queue confirmation email for booking %d: %v", b.ID, err)
		}
	}

	if s.publisher != nil {
		event := events.BookingCreatedEvent{
			BookingID:   b.ID,
			Reference:   b.Reference,
			UserID:      b.UserID,
			PlanID:      b.PlanID,
			BookingDate: b.BookingDate.Format(schedule.DateOnly),
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Location:    b.Location,
			PriceCents:  b.PriceCents,
			CreatedAt:   events.FormatEventTime(b.CreatedAt),
		}
		if err := s.publisher.PublishBookingCreated(ctx, event); err != nil {
			logger.Errorf("Failed to publish booking.created for booking %d: %v", b.ID, err)
		}
	}
}

func (s *service) CancelBooking(ctx context.Context, userID int, role string, bookingID int) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && role != auth.RoleAdmin {
		return nil, ErrNotOwner
	}

	canceled, err := s.repo.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()
	s.notifyCanceled(ctx, canceled)

	return canceled, nil
}

func (s *service) notifyCanceled(ctx context.Context, b *Booking) {
	if s.emails != nil {
		if u, err := s.userRepo.FindByID(ctx, b.UserID); err == nil {
			planName := "Photography Session"
			if p, err := s.planRepo.GetByID(ctx, b.PlanID); err == nil {
				planName = p.Name
			}
			if err := s.emails.SendCancellation(ctx, u.Email, u.Name, planName, b.Reference, b.BookingDate); err != nil {
				logger.Errorf("Failed to queue cancellation email for booking %d: %v", b.ID, err)
			}
		}
	}

	if s.publisher != nil {
		canceledAt := time.Now()
		if b.CanceledAt != nil {
			canceledAt = *b.CanceledAt
		}
		event := events.BookingCanceledEvent{
			BookingID:   b.ID,
			Reference:   b.Reference,
			UserID:      b.UserID,
			BookingDate: b.BookingDate.Format(schedule.DateOnly),
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			CanceledAt:  events.FormatEventTime(canceledAt),
		}
		if err := s.publisher.PublishBookingCanceled(ctx, event); err != nil {
			logger.Errorf("Failed to publish booking.canceled for booking %d: %v", b.ID, err)
		}
	}
}

func (s *service) MarkPaid(ctx context.Context, bookingID int, result PaymentResult) (*Booking, error) {
	booking, err := s.repo.MarkPaid(ctx, bookingID, result)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking("paid")

	if s.emails != nil {
		if u, err := s.userRepo.FindByID(ctx, booking.UserID); err == nil {
			if err := s.emails.SendPaymentReceipt(ctx, u.Email, u.Name, booking.Reference, booking.DownPaymentCents); err != nil {
				logger.Errorf("Failed to queue payment receipt for booking %d: %v", booking.ID, err)
			}
		}
	}

	return booking, nil
}

func (s *service) MarkConfirmed(ctx context.Context, bookingID int) (*Booking, error) {
	return s.repo.MarkConfirmed(ctx, bookingID)
}

func (s *service) MarkCompleted(ctx context.Context, bookingID int) (*Booking, error) {
	return s.repo.MarkCompleted(ctx, bookingID)
}

func (s *service) GetBooking(ctx context.Context, userID int, role string, bookingID int) (*BookingWithDetails, error) {
	booking, err := s.repo.GetByIDWithDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && role != auth.RoleAdmin {
		return nil, ErrNotOwner
	}

	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetBookingsForUser(ctx context.Context, targetUserID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, targetUserID)
}

func (s *service) ListAll(ctx context.Context, page int) (*BookingListPage, error) {
	if page < 1 {
		page = 1
	}

	bookings, total, revenue, err := s.repo.ListAll(ctx, page, listPageSize)
	if err != nil {
		return nil, err
	}

	pages := (total + listPageSize - 1) / listPageSize
	if pages == 0 {
		pages = 1
	}

	return &BookingListPage{
		Bookings:          bookings,
		Page:              page,
		Pages:             pages,
		Total:             total,
		TotalRevenueCents: revenue,
	}, nil
}
