package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clouddrive/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and attempts to sign in
// against the identity provider.
//
// The password byte slice is securely wiped before returning. The outcome is
// reported to the user; any I/O or provider error is also returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.provider.SignIn(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			fmt.Fprintln(a.out, "Invalid email or password.")
		case errors.Is(err, common.ErrUnavailable):
			fmt.Fprintln(a.out, "Identity provider unavailable, try again later.")
		default:
			fmt.Fprintf(a.out, "Login failed: %v\n", err)
		}
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Logout signs out at the provider. Local files/links state is torn down via
// the session-change notification, not here.
func (a *App) Logout(ctx context.Context) error {
	if err := a.provider.SignOut(ctx); err != nil {
		fmt.Fprintf(a.out, "Sign out failed: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(ctx context.Context) error {
	id := a.provider.Current()
	if id == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", id.Email, id.ID)
	return nil
}
