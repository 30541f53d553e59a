package cli

import (
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// login prompts for credentials and authenticates against the server. On
// success the credential is adopted (which opens the push channel) and the
// mirrors are bulk-fetched to a fresh snapshot.
func (a *App) login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	resp, err := a.gateway.Login(ctx, username, string(password))
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}

	a.store.SetCredential(ctx, resp.User, resp.AccessToken)
	a.refreshMirrors(ctx)

	fmt.Printf("Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
	if resp.ForcePasswordChange {
		fmt.Println("Your password is temporary. Change it with: edituser", resp.User.ID)
	}
}

// logout discards the credential, which also closes the push channel and
// empties the mirrors.
func (a *App) logout(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	a.store.ClearCredential(ctx)
	fmt.Println("Logged out")
}

func (a *App) whoami() {
	principal, ok := a.store.Principal()
	if !ok {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%d  %s  %s  %s %s  <%s>\n",
		principal.ID, principal.Username, principal.Role,
		principal.FirstName, principal.LastName, principal.Email)
}
