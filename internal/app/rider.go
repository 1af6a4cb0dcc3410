package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lukman83/martdash/internal/accounts"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/rider"
)

func (a *App) riderReady() error {
	if a.Rider == nil {
		return ErrRiderNotConfigured
	}
	if a.Accounts == nil {
		return errors.New("no account store configured")
	}
	return nil
}

// StartLogin sends an OTP to mobile.
func (a *App) StartLogin(ctx context.Context, mobile string) (rider.SessionState, error) {
	if err := a.riderReady(); err != nil {
		return rider.SessionState{}, err
	}
	return rider.SendOTP(ctx, a.Rider, rider.SessionState{}, mobile)
}

// FinishLogin verifies the OTP and stores the issued tokens.
func (a *App) FinishLogin(ctx context.Context, st rider.SessionState, otp string) (rider.SessionState, error) {
	if err := a.riderReady(); err != nil {
		return st, err
	}
	next, err := rider.VerifyOTP(ctx, a.Rider, st, otp)
	if err != nil {
		return st, err
	}
	if err := a.Accounts.Save(ctx, next.Session); err != nil {
		return next, fmt.Errorf("store session: %w", err)
	}
	a.logger().Info("rider logged in", "mobile", next.Mobile)
	return next, nil
}

// Session restores a stored session for mobile and validates it.
func (a *App) Session(ctx context.Context, mobile string) (rider.SessionState, error) {
	if err := a.riderReady(); err != nil {
		return rider.SessionState{}, err
	}
	stored, err := a.Accounts.Get(ctx, mobile)
	if errors.Is(err, accounts.ErrNotFound) {
		return rider.SessionState{}, fmt.Errorf("no stored session for %s, log in first: %w", mobile, err)
	}
	if err != nil {
		return rider.SessionState{}, err
	}
	return rider.AutoLogin(ctx, a.Rider, rider.SessionState{}, stored)
}

// Logout ends the rider's session and forgets the stored tokens. Tokens the
// service no longer accepts are deleted all the same.
func (a *App) Logout(ctx context.Context, mobile string) error {
	if a.Accounts == nil {
		return errors.New("no account store configured")
	}
	if a.Rider != nil {
		st, err := a.Session(ctx, mobile)
		switch {
		case errors.Is(err, accounts.ErrNotFound):
			return err
		case err != nil:
			a.logger().Warn("stored session rejected, deleting", "mobile", mobile, "error", err)
		default:
			if _, err := rider.Logout(st); err != nil {
				return err
			}
		}
	}
	if err := a.Accounts.Delete(ctx, mobile); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	a.logger().Info("rider logged out", "mobile", mobile)
	return nil
}

// ListAccounts lists the stored rider sessions.
func (a *App) ListAccounts(ctx context.Context) ([]models.AuthSession, error) {
	if a.Accounts == nil {
		return nil, errors.New("no account store configured")
	}
	return a.Accounts.List(ctx)
}

// Trip returns the assigned trip for mobile, or rider.ErrNoTrip.
func (a *App) Trip(ctx context.Context, mobile string) (models.Trip, error) {
	_, trip, err := a.activeTrip(ctx, mobile)
	return trip, err
}

// TripFunc receives each fetched trip. err is rider.ErrNoTrip when none is
// assigned.
type TripFunc func(trip models.Trip, err error)

// WatchTrip restores the session, reports its trip, then refreshes it every
// interval until ctx ends. A refresh that fails for any reason other than
// no trip stops the watch.
func (a *App) WatchTrip(ctx context.Context, mobile string, every time.Duration, fn TripFunc) error {
	if every <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", every)
	}
	st, err := a.Session(ctx, mobile)
	if err != nil {
		return err
	}
	fn(tripOf(st))

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		next, err := rider.Refresh(ctx, a.Rider, st)
		if err != nil && !errors.Is(err, rider.ErrNoTrip) {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("refresh trip: %w", err)
		}
		st = next
		fn(tripOf(st))
	}
}

func tripOf(st rider.SessionState) (models.Trip, error) {
	if st.Trip == nil {
		return models.Trip{}, rider.ErrNoTrip
	}
	return *st.Trip, nil
}

// Deliver completes one shipment of the rider's trip.
func (a *App) Deliver(ctx context.Context, mobile, shipmentID string) (rider.Result, error) {
	st, trip, err := a.activeTrip(ctx, mobile)
	if err != nil {
		return rider.Result{}, err
	}
	s, ok := trip.Shipment(shipmentID)
	if !ok {
		return rider.Result{}, fmt.Errorf("%s: %w", shipmentID, ErrShipmentNotFound)
	}
	return rider.NewOrchestrator(a.Rider, a.logger()).CompleteDelivery(ctx, st.Session, trip.TripID, s), nil
}

// DeliverAll completes every pending shipment whose address contains address.
func (a *App) DeliverAll(ctx context.Context, mobile, address string) ([]rider.Result, error) {
	st, trip, err := a.activeTrip(ctx, mobile)
	if err != nil {
		return nil, err
	}
	match := rider.All(rider.AddressContains(address), rider.Pending())
	return rider.NewOrchestrator(a.Rider, a.logger()).DeliverAll(ctx, st.Session, trip, match), nil
}

func (a *App) activeTrip(ctx context.Context, mobile string) (rider.SessionState, models.Trip, error) {
	st, err := a.Session(ctx, mobile)
	if err != nil {
		return st, models.Trip{}, err
	}
	trip, err := tripOf(st)
	return st, trip, err
}
