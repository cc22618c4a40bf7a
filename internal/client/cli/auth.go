package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/client/api"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and the avatar file path and
// creates the account.
//
// On success it prints the new account's id. The password byte slice is
// securely wiped before returning. Any I/O or API error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	avatarPath, err := getSimpleText(a.reader, "Enter avatar image path", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Register(ctx, api.RegisterForm{
		FullName:   fullName,
		Email:      email,
		Username:   userName,
		Password:   string(password),
		AvatarPath: avatarPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered: id=%s\n", user.ID)
	return nil
}

// Login prompts for credentials and authenticates against the server. The
// password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", user.Username)
	return nil
}

// WhoAmI prints the authenticated account.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("id=%s username=%s email=%s fullName=%q\n", user.ID, user.Username, user.Email, user.FullName)
	return nil
}

// Logout ends the server-side session and drops the cached token.
func (a *App) Logout(ctx context.Context) error {
	return a.api.Logout(ctx)
}
