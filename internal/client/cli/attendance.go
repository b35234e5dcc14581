package cli

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/mwalimu/shulesync/internal/models"
)

// RunAttendance marks (or re-marks) the attendance register for one class and
// day. Marking the same class and day twice updates the single existing
// register rather than creating a second one.
func (c *Cli) RunAttendance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("attendance", flag.ContinueOnError)
	class := fs.String("class", "", "Class id (required)")
	date := fs.String("date", time.Now().Format(models.DateLayout), "Date (YYYY-MM-DD)")
	present := fs.String("present", "", "Comma-separated student ids marked present")
	absent := fs.String("absent", "", "Comma-separated student ids marked absent")
	late := fs.String("late", "", "Comma-separated student ids marked late")
	excused := fs.String("excused", "", "Comma-separated student ids marked excused")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var entries []models.AttendanceEntry
	appendEntries := func(ids string, status models.AttendanceStatus) {
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			entries = append(entries, models.AttendanceEntry{StudentID: id, Status: status})
		}
	}
	appendEntries(*present, models.AttendancePresent)
	appendEntries(*absent, models.AttendanceAbsent)
	appendEntries(*late, models.AttendanceLate)
	appendEntries(*excused, models.AttendanceExcused)

	register := &models.Attendance{
		ClassID: *class,
		Date:    *date,
		Entries: entries,
	}

	result, err := c.attendance.Save(ctx, register)
	if err != nil {
		return err
	}
	if result.Queued {
		c.printf("Attendance for %s on %s saved locally; it will sync when online\n", *class, *date)
	} else {
		c.printf("Attendance for %s on %s saved\n", *class, *date)
	}
	return nil
}
