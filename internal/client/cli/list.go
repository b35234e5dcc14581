package cli

import (
	"context"
	"flag"
	"fmt"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
)

// RunList lists records of one collection, live when online and cached
// otherwise. Cached output is labelled so the user knows it may be stale.
func (c *Cli) RunList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: shulesync list <grades|attendance|students|classes|courses|schools> [flags]")
	}
	what := args[0]
	args = args[1:]

	switch what {
	case "grades":
		return c.listGrades(ctx, args)
	case "attendance":
		return c.listAttendance(ctx, args)
	case "students":
		return c.listStudents(ctx, args)
	case "classes":
		classes, err := c.reference.Classes(ctx)
		if err != nil {
			return err
		}
		for _, cl := range classes {
			c.printf("%-12s %s (%d)\n", cl.ID, cl.Name, cl.AcademicYear)
		}
		return nil
	case "courses":
		courses, err := c.reference.Courses(ctx)
		if err != nil {
			return err
		}
		for _, co := range courses {
			c.printf("%-12s %-8s %s\n", co.ID, co.Code, co.Name)
		}
		return nil
	case "schools":
		schools, err := c.reference.Schools(ctx)
		if err != nil {
			return err
		}
		for _, s := range schools {
			c.printf("%-12s %s (%s)\n", s.ID, s.Name, s.Town)
		}
		return nil
	default:
		return fmt.Errorf("unknown collection: %s", what)
	}
}

func (c *Cli) listGrades(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list grades", flag.ContinueOnError)
	student := fs.String("student", "", "Filter by student id")
	course := fs.String("course", "", "Filter by course id")
	class := fs.String("class", "", "Filter by class id")
	year := fs.Int("year", 0, "Filter by academic year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := c.grades.Load(ctx, httpclient.GradeFilter{
		StudentID:    *student,
		CourseID:     *course,
		ClassID:      *class,
		AcademicYear: *year,
	})
	if err != nil {
		return err
	}

	if list.IsOfflineData {
		c.printf("(cached data; server unreachable)\n")
	}
	for _, g := range list.Grades {
		c.printf("%-14s student=%s course=%s year=%d value=%.1f\n",
			g.ID, g.StudentID, g.CourseID, g.AcademicYear, g.Value)
	}
	if len(list.Grades) == 0 {
		c.printf("No grades found\n")
	}
	return nil
}

func (c *Cli) listAttendance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list attendance", flag.ContinueOnError)
	class := fs.String("class", "", "Filter by class id")
	date := fs.String("date", "", "Filter by date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := c.attendance.Load(ctx, httpclient.AttendanceFilter{
		ClassID: *class,
		Date:    *date,
	})
	if err != nil {
		return err
	}

	if list.IsOfflineData {
		c.printf("(cached data; server unreachable)\n")
	}
	for _, a := range list.Registers {
		c.printf("%-14s class=%s date=%s entries=%d\n", a.ID, a.ClassID, a.Date, len(a.Entries))
	}
	if len(list.Registers) == 0 {
		c.printf("No attendance registers found\n")
	}
	return nil
}

func (c *Cli) listStudents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list students", flag.ContinueOnError)
	class := fs.String("class", "", "Filter by class id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := c.students.Load(ctx, *class)
	if err != nil {
		return err
	}

	if list.IsOfflineData {
		c.printf("(cached data; server unreachable)\n")
	}
	for _, s := range list.Students {
		c.printf("%-14s %s %s (class %s)\n", s.ID, s.FirstName, s.LastName, s.ClassID)
	}
	if len(list.Students) == 0 {
		c.printf("No students found\n")
	}
	return nil
}
