package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/mwalimu/shulesync/internal/models"
)

// RunGrade records, changes or deletes a grade.
// Subcommands: add (default), delete.
func (c *Cli) RunGrade(ctx context.Context, args []string) error {
	sub := "add"
	if len(args) > 0 && args[0] == "delete" {
		sub = "delete"
		args = args[1:]
	} else if len(args) > 0 && args[0] == "add" {
		args = args[1:]
	}

	switch sub {
	case "add":
		return c.gradeAdd(ctx, args)
	case "delete":
		return c.gradeDelete(ctx, args)
	default:
		return fmt.Errorf("unknown grade subcommand: %s", sub)
	}
}

func (c *Cli) gradeAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grade add", flag.ContinueOnError)
	student := fs.String("student", "", "Student id (required)")
	course := fs.String("course", "", "Course id (required)")
	class := fs.String("class", "", "Class id")
	year := fs.Int("year", 0, "Academic year (required)")
	term := fs.Int("term", 0, "Term number")
	value := fs.Float64("value", -1, "Grade value 0-100 (required)")
	comment := fs.String("comment", "", "Optional comment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	grade := &models.Grade{
		StudentID:    *student,
		CourseID:     *course,
		ClassID:      *class,
		AcademicYear: *year,
		Term:         *term,
		Value:        *value,
		Comment:      *comment,
	}

	result, err := c.grades.Save(ctx, grade)
	if err != nil {
		return err
	}
	if result.Queued {
		c.printf("Grade saved locally (%s); it will sync when online\n", result.ID)
	} else {
		c.printf("Grade saved (%s)\n", result.ID)
	}
	return nil
}

func (c *Cli) gradeDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grade delete", flag.ContinueOnError)
	id := fs.String("id", "", "Grade id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.grades.Delete(ctx, *id)
	if err != nil {
		return err
	}
	if result.Queued {
		c.printf("Grade deletion queued; it will sync when online\n")
	} else {
		c.printf("Grade deleted\n")
	}
	return nil
}
