package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"trainhub/internal/models"
)

func (a *App) getStatus() string {
	principal, ok := a.store.Principal()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s)", principal.Username, principal.Role)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to trainhub CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("trainhub %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, users, adduser, edituser <id>, deluser <id>,")
				fmt.Println("  sessions, addsession, complete <id>, cancel <id>, delsession <id>,")
				fmt.Println("  analytics, refresh, logout, exit")
			} else {
				fmt.Println("Available commands: login, exit")
			}

		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami()
		case "users":
			a.listUsers()
		case "adduser":
			a.addUser(ctx)
		case "edituser":
			a.editUser(ctx, args)
		case "deluser":
			a.deleteUser(ctx, args)
		case "sessions":
			a.listSessions()
		case "addsession":
			a.addSession(ctx)
		case "complete":
			a.setSessionStatus(ctx, cmd, args, models.StatusCompleted)
		case "cancel":
			a.setSessionStatus(ctx, cmd, args, models.StatusCancelled)
		case "delsession":
			a.deleteSession(ctx, args)
		case "analytics":
			a.analytics(ctx)
		case "refresh":
			a.refreshMirrors(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
