package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTempID(t *testing.T) {
	id := NewTempID()

	assert.True(t, IsTempID(id))
	assert.NotEqual(t, id, NewTempID(), "temp ids must be unique")
}

func TestIsTempID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{
			name:     "temp id",
			id:       "temp_4f3c2a1b-0000-0000-0000-000000000000",
			expected: true,
		},
		{
			name:     "server id",
			id:       "grade-42",
			expected: false,
		},
		{
			name:     "empty",
			id:       "",
			expected: false,
		},
		{
			name:     "prefix embedded mid-string",
			id:       "x_temp_123",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTempID(tt.id))
		})
	}
}

func TestCollection_Valid(t *testing.T) {
	for _, c := range AllCollections {
		assert.True(t, c.Valid(), "collection %s", c)
	}
	assert.False(t, Collection("teachers").Valid())
	assert.False(t, Collection("").Valid())
}

func TestCollection_IsReference(t *testing.T) {
	assert.True(t, CollectionStudents.IsReference())
	assert.True(t, CollectionClasses.IsReference())
	assert.True(t, CollectionCourses.IsReference())
	assert.True(t, CollectionSchools.IsReference())

	assert.False(t, CollectionGrades.IsReference())
	assert.False(t, CollectionAttendance.IsReference())
}
