// Package session manages the authenticated identity for the cloud drive
// client. The identity itself is owned by an external provider; this package
// only queries it, subscribes to changes, and clears it on sign-out.
package session

import "context"

// Identity is the authenticated principal under whose namespace files are
// stored and listed. It is a read-only reference: consumers must never
// mutate it.
type Identity struct {
	ID    string
	Email string
}

// Provider is the contract with the external identity provider.
//
// Contract:
//   - Current: point-in-time query of the active identity (nil when signed out).
//   - OnChange: push notification; fires at least on sign-in and sign-out.
//     Callbacks receive nil on sign-out.
//   - SignIn / SignOut: session lifecycle against the provider.
//   - Close: release underlying transport resources.
//
// All methods must honor context cancellation/timeouts.
type Provider interface {
	Current() *Identity
	OnChange(fn func(*Identity))
	SignIn(ctx context.Context, email string, password []byte) error
	SignOut(ctx context.Context) error
	Close() error
}
