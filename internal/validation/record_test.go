package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwalimu/shulesync/internal/models"
)

func TestValidateEntity_Grade(t *testing.T) {
	tests := []struct {
		name    string
		grade   *models.Grade
		wantErr bool
	}{
		{
			name: "valid",
			grade: &models.Grade{
				StudentID:    "s1",
				CourseID:     "math",
				AcademicYear: 2025,
				Term:         2,
				Value:        87.5,
			},
			wantErr: false,
		},
		{
			name: "missing student",
			grade: &models.Grade{
				CourseID:     "math",
				AcademicYear: 2025,
				Value:        50,
			},
			wantErr: true,
		},
		{
			name: "value out of range",
			grade: &models.Grade{
				StudentID:    "s1",
				CourseID:     "math",
				AcademicYear: 2025,
				Value:        110,
			},
			wantErr: true,
		},
		{
			name: "year out of range",
			grade: &models.Grade{
				StudentID:    "s1",
				CourseID:     "math",
				AcademicYear: 1999,
				Value:        50,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.grade)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEntity_Attendance(t *testing.T) {
	valid := &models.Attendance{
		ClassID: "c1",
		Date:    "2025-03-10",
		Entries: []models.AttendanceEntry{
			{StudentID: "s1", Status: models.AttendancePresent},
			{StudentID: "s2", Status: models.AttendanceAbsent},
		},
	}
	assert.NoError(t, ValidateEntity(valid))

	badDate := &models.Attendance{
		ClassID: "c1",
		Date:    "10/03/2025",
		Entries: []models.AttendanceEntry{{StudentID: "s1", Status: models.AttendancePresent}},
	}
	assert.Error(t, ValidateEntity(badDate))

	noEntries := &models.Attendance{ClassID: "c1", Date: "2025-03-10"}
	assert.Error(t, ValidateEntity(noEntries))

	badStatus := &models.Attendance{
		ClassID: "c1",
		Date:    "2025-03-10",
		Entries: []models.AttendanceEntry{{StudentID: "s1", Status: "asleep"}},
	}
	assert.Error(t, ValidateEntity(badStatus))
}

func TestValidateEntity_Nil(t *testing.T) {
	assert.Error(t, ValidateEntity(nil))
}

func TestValidateEntity_ErrorNamesJSONField(t *testing.T) {
	err := ValidateEntity(&models.Grade{CourseID: "math", AcademicYear: 2025})
	assert.ErrorContains(t, err, "student_id")
}
