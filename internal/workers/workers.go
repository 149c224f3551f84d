package workers

import (
	"context"
	"log"
	"time"

	"futureYouAPI/services"
)

const (
	reminderInterval = 1 * time.Hour

	// Reminders only go out during the evening window, late enough that
	// the user has had a real chance to log and early enough to act on.
	reminderStartHour = 18
	reminderEndHour   = 22
)

// StartStreakReminderWorker wakes up hourly and, during the evening
// window, nudges users whose streak would break today. Stops when ctx is
// cancelled.
func StartStreakReminderWorker(ctx context.Context, reminders *services.ReminderService) {
	go func() {
		ticker := time.NewTicker(reminderInterval)
		defer ticker.Stop()

		log.Println("Streak reminder worker started")
		for {
			select {
			case <-ctx.Done():
				log.Println("Streak reminder worker stopped")
				return
			case <-ticker.C:
				hour := time.Now().Hour()
				if hour < reminderStartHour || hour >= reminderEndHour {
					continue
				}
				runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
				if err := reminders.SendStreakReminders(runCtx); err != nil {
					log.Printf("Streak reminder run failed: %v", err)
				}
				cancel()
			}
		}
	}()
}
