package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"trainhub/internal/models"
)

// listUsers renders the user mirror. Commands never update the mirror
// directly, so right after a mutation this view may briefly lag until the
// server's notification arrives.
func (a *App) listUsers() {
	users := a.store.Users()
	if len(users) == 0 {
		fmt.Println("No users mirrored")
		return
	}
	for _, u := range users {
		fmt.Printf("%d\t%s\t%s\t%s %s\t<%s>\n",
			u.ID, u.Username, u.Role, u.FirstName, u.LastName, u.Email)
	}
}

func (a *App) addUser(ctx context.Context) {
	var in models.UserCreate
	var err error

	if in.Username, err = getSimpleText(a.reader, "Username", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.Email, err = getSimpleText(a.reader, "Email", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	role, err := getSimpleText(a.reader, "Role (admin/trainer/trainee)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	in.Role = models.Role(role)
	if !in.Role.Valid() {
		fmt.Println("Unknown role:", role)
		return
	}
	if in.FirstName, err = getSimpleText(a.reader, "First name", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.LastName, err = getSimpleText(a.reader, "Last name", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	in.Password = string(password)
	in.IsTemporaryPassword = true

	created, err := a.gateway.CreateUser(ctx, in)
	if err != nil {
		fmt.Println("Create failed:", err)
		return
	}
	fmt.Printf("Created user %d (%s); the list updates when the change is announced\n",
		created.ID, created.Username)
}

func (a *App) editUser(ctx context.Context, args []string) {
	id, ok := parseID(args, "edituser")
	if !ok {
		return
	}

	var in models.UserUpdate
	email, err := getSimpleText(a.reader, "New email (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if email != "" {
		in.Email = &email
	}
	first, err := getSimpleText(a.reader, "New first name (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if first != "" {
		in.FirstName = &first
	}
	last, err := getSimpleText(a.reader, "New last name (empty to keep)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if last != "" {
		in.LastName = &last
	}
	change, err := getSimpleText(a.reader, "Change password? (y/N)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if change == "y" || change == "Y" {
		password, err := getPassword(os.Stdout)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		p := string(password)
		in.Password = &p
		f := false
		in.IsTemporaryPassword = &f
	}

	if _, err := a.gateway.UpdateUser(ctx, id, in); err != nil {
		fmt.Println("Update failed:", err)
		return
	}
	fmt.Println("Update accepted; the mirror refreshes when the change is announced")
}

func (a *App) deleteUser(ctx context.Context, args []string) {
	id, ok := parseID(args, "deluser")
	if !ok {
		return
	}
	if err := a.gateway.DeleteUser(ctx, id); err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	fmt.Println("Delete accepted")
}

func parseID(args []string, cmd string) (int64, bool) {
	if len(args) == 0 {
		fmt.Printf("Usage: %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("Not a numeric id:", args[0])
		return 0, false
	}
	return id, true
}
