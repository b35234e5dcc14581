package models

// Collection identifies one of the locally persisted record sets.
type Collection string

const (
	CollectionGrades     Collection = "grades"
	CollectionAttendance Collection = "attendance"
	CollectionStudents   Collection = "students"
	CollectionClasses    Collection = "classes"
	CollectionCourses    Collection = "courses"
	CollectionSchools    Collection = "schools"
)

// AllCollections lists every persisted collection.
var AllCollections = []Collection{
	CollectionGrades,
	CollectionAttendance,
	CollectionStudents,
	CollectionClasses,
	CollectionCourses,
	CollectionSchools,
}

// ReferenceCollections are the read-only collections refreshed by pull.
// They never hold user-authored pending records, so a full replace is safe.
var ReferenceCollections = []Collection{
	CollectionStudents,
	CollectionClasses,
	CollectionCourses,
	CollectionSchools,
}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

// IsReference reports whether c is a read-only reference collection.
func (c Collection) IsReference() bool {
	for _, ref := range ReferenceCollections {
		if c == ref {
			return true
		}
	}
	return false
}
