package rider

import (
	"context"
	"errors"
	"fmt"

	"github.com/lukman83/martdash/internal/models"
)

// ErrInvalidTransition is returned when a transition is called from the wrong phase.
var ErrInvalidTransition = errors.New("invalid session transition")

// Phase is where a rider session stands.
type Phase int

const (
	LoggedOut Phase = iota
	OTPSent
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case LoggedOut:
		return "logged-out"
	case OTPSent:
		return "otp-sent"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SessionState is the whole state of one rider session. Transitions take it
// by value and return the next state; on failure the returned state is the
// input unchanged.
type SessionState struct {
	Phase   Phase
	Mobile  string
	Session models.AuthSession
	Trip    *models.Trip
}

// AuthAPI is what the transitions need from the service.
type AuthAPI interface {
	SendOTP(ctx context.Context, mobile string) error
	VerifyOTP(ctx context.Context, mobile, otp string) (models.AuthSession, error)
	AssignedTrip(ctx context.Context, sess models.AuthSession) (models.Trip, error)
}

func invalid(op string, st SessionState) error {
	return fmt.Errorf("%s from %s: %w", op, st.Phase, ErrInvalidTransition)
}

// SendOTP moves LoggedOut to OTPSent.
func SendOTP(ctx context.Context, api AuthAPI, st SessionState, mobile string) (SessionState, error) {
	if st.Phase != LoggedOut {
		return st, invalid("send otp", st)
	}
	if err := api.SendOTP(ctx, mobile); err != nil {
		return st, err
	}
	return SessionState{Phase: OTPSent, Mobile: mobile}, nil
}

// VerifyOTP moves OTPSent to Authenticated.
func VerifyOTP(ctx context.Context, api AuthAPI, st SessionState, otp string) (SessionState, error) {
	if st.Phase != OTPSent {
		return st, invalid("verify otp", st)
	}
	sess, err := api.VerifyOTP(ctx, st.Mobile, otp)
	if err != nil {
		return st, err
	}
	return SessionState{Phase: Authenticated, Mobile: st.Mobile, Session: sess}, nil
}

// AutoLogin moves LoggedOut to Authenticated with stored tokens, after an
// AssignedTrip call accepts them. A 404 (no trip) still proves the tokens
// are valid.
func AutoLogin(ctx context.Context, api AuthAPI, st SessionState, stored models.AuthSession) (SessionState, error) {
	if st.Phase != LoggedOut {
		return st, invalid("auto login", st)
	}
	next := SessionState{Phase: Authenticated, Mobile: stored.MobileNumber, Session: stored}
	trip, err := api.AssignedTrip(ctx, stored)
	switch {
	case errors.Is(err, ErrNoTrip):
	case err != nil:
		return st, fmt.Errorf("stored session rejected: %w", err)
	default:
		next.Trip = &trip
	}
	return next, nil
}

// Refresh replaces the cached trip. With no trip assigned the cache is cleared
// and ErrNoTrip is returned alongside the updated state.
func Refresh(ctx context.Context, api AuthAPI, st SessionState) (SessionState, error) {
	if st.Phase != Authenticated {
		return st, invalid("refresh", st)
	}
	trip, err := api.AssignedTrip(ctx, st.Session)
	if errors.Is(err, ErrNoTrip) {
		st.Trip = nil
		return st, err
	}
	if err != nil {
		return st, err
	}
	st.Trip = &trip
	return st, nil
}

// Logout clears everything.
func Logout(st SessionState) (SessionState, error) {
	if st.Phase != Authenticated {
		return st, invalid("logout", st)
	}
	return SessionState{Phase: LoggedOut}, nil
}
