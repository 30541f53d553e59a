package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"trainhub/internal/models"
)

const scheduleLayout = "2006-01-02 15:04"

// listSessions renders the session mirror sorted by id.
func (a *App) listSessions() {
	sessions := a.store.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No sessions mirrored")
		return
	}
	for _, s := range sessions {
		fmt.Printf("%d\t%s\t%s\ttrainer=%d trainee=%d\t%s\t%dmin\n",
			s.ID, s.Title, s.Status, s.TrainerID, s.TraineeID,
			s.ScheduledDate.Format(scheduleLayout), s.DurationMinutes)
	}
}

func (a *App) addSession(ctx context.Context) {
	var in models.SessionCreate
	var err error

	if in.Title, err = getSimpleText(a.reader, "Title", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.Description, err = getSimpleText(a.reader, "Description", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.TrainerID, err = GetInt(a.reader, "Trainer id", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.TraineeID, err = GetInt(a.reader, "Trainee id", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	dateText, err := getSimpleText(a.reader, "Scheduled date (YYYY-MM-DD HH:MM)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if in.ScheduledDate, err = time.Parse(scheduleLayout, dateText); err != nil {
		fmt.Println("Unparseable date:", dateText)
		return
	}
	minutes, err := GetInt(a.reader, "Duration (minutes)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	in.DurationMinutes = int(minutes)
	in.Status = models.StatusScheduled

	created, err := a.gateway.CreateSession(ctx, in)
	if err != nil {
		fmt.Println("Create failed:", err)
		return
	}
	fmt.Printf("Scheduled session %d; the list updates when the change is announced\n", created.ID)
}

func (a *App) setSessionStatus(ctx context.Context, cmd string, args []string, status models.SessionStatus) {
	id, ok := parseID(args, cmd)
	if !ok {
		return
	}
	in := models.SessionUpdate{Status: &status}
	if _, err := a.gateway.UpdateSession(ctx, id, in); err != nil {
		fmt.Println("Update failed:", err)
		return
	}
	fmt.Printf("Session %d marked %s; the mirror refreshes when the change is announced\n", id, status)
}

func (a *App) deleteSession(ctx context.Context, args []string) {
	id, ok := parseID(args, "delsession")
	if !ok {
		return
	}
	if err := a.gateway.DeleteSession(ctx, id); err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	fmt.Println("Delete accepted")
}
