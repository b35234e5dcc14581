package models

import (
	"encoding/json"
	"fmt"
)

// Entity is implemented by every domain record kept in the local store.
// EntityID returns the canonical id (server-issued or temporary) and Key the
// compound natural key the uniqueness invariant is enforced on.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
	Key() NaturalKey
	Collection() Collection
}

// DateLayout is the wire format for day-granularity dates.
const DateLayout = "2006-01-02"

// Grade is one mark for a student in a course for an academic year.
// Natural key: (student_id, course_id, academic_year).
type Grade struct {
	ID           string  `json:"id,omitempty"`
	StudentID    string  `json:"student_id" validate:"required"`
	CourseID     string  `json:"course_id" validate:"required"`
	ClassID      string  `json:"class_id,omitempty"`
	AcademicYear int     `json:"academic_year" validate:"required,gte=2000,lte=2100"`
	Term         int     `json:"term,omitempty" validate:"gte=0,lte=3"`
	Value        float64 `json:"value" validate:"gte=0,lte=100"`
	Comment      string  `json:"comment,omitempty"`
	RecordedBy   string  `json:"recorded_by,omitempty"`
}

func (g *Grade) EntityID() string      { return g.ID }
func (g *Grade) SetEntityID(id string) { g.ID = id }
func (g *Grade) Collection() Collection {
	return CollectionGrades
}

func (g *Grade) Key() NaturalKey {
	return GradeKey(g.StudentID, g.CourseID, g.AcademicYear)
}

// GradeKey builds the grade natural key without needing a full record.
func GradeKey(studentID, courseID string, academicYear int) NaturalKey {
	return NaturalKey(fmt.Sprintf("%s|%s|%d", studentID, courseID, academicYear))
}

// AttendanceStatus is one student's state in a daily register.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceEntry is one student's line in an attendance register.
type AttendanceEntry struct {
	StudentID string           `json:"student_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Remark    string           `json:"remark,omitempty"`
}

// Attendance is the daily register for one class.
// Natural key: (class_id, date).
type Attendance struct {
	ID       string            `json:"id,omitempty"`
	ClassID  string            `json:"class_id" validate:"required"`
	Date     string            `json:"date" validate:"required,datefmt"`
	Entries  []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
	MarkedBy string            `json:"marked_by,omitempty"`
}

func (a *Attendance) EntityID() string      { return a.ID }
func (a *Attendance) SetEntityID(id string) { a.ID = id }
func (a *Attendance) Collection() Collection {
	return CollectionAttendance
}

func (a *Attendance) Key() NaturalKey {
	return AttendanceKey(a.ClassID, a.Date)
}

// AttendanceKey builds the attendance natural key without a full record.
func AttendanceKey(classID, date string) NaturalKey {
	return NaturalKey(fmt.Sprintf("%s|%s", classID, date))
}

// Student is reference data pulled from the server.
type Student struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	ClassID   string `json:"class_id,omitempty"`
	SchoolID  string `json:"school_id,omitempty"`
	Active    bool   `json:"active"`
}

func (s *Student) EntityID() string       { return s.ID }
func (s *Student) SetEntityID(id string)  { s.ID = id }
func (s *Student) Collection() Collection { return CollectionStudents }
func (s *Student) Key() NaturalKey        { return NaturalKey(s.ID) }

// Class is reference data pulled from the server.
type Class struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	SchoolID     string `json:"school_id,omitempty"`
	AcademicYear int    `json:"academic_year,omitempty"`
	TeacherID    string `json:"teacher_id,omitempty"`
}

func (c *Class) EntityID() string       { return c.ID }
func (c *Class) SetEntityID(id string)  { c.ID = id }
func (c *Class) Collection() Collection { return CollectionClasses }
func (c *Class) Key() NaturalKey        { return NaturalKey(c.ID) }

// Course is reference data pulled from the server.
type Course struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code,omitempty"`
	SchoolID string `json:"school_id,omitempty"`
}

func (c *Course) EntityID() string       { return c.ID }
func (c *Course) SetEntityID(id string)  { c.ID = id }
func (c *Course) Collection() Collection { return CollectionCourses }
func (c *Course) Key() NaturalKey        { return NaturalKey(c.ID) }

// School is reference data pulled from the server.
type School struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Town string `json:"town,omitempty"`
}

func (s *School) EntityID() string       { return s.ID }
func (s *School) SetEntityID(id string)  { s.ID = id }
func (s *School) Collection() Collection { return CollectionSchools }
func (s *School) Key() NaturalKey        { return NaturalKey(s.ID) }

// DecodeEntity unmarshals raw into the entity type registered for collection.
func DecodeEntity(collection Collection, raw json.RawMessage) (Entity, error) {
	var e Entity
	switch collection {
	case CollectionGrades:
		e = &Grade{}
	case CollectionAttendance:
		e = &Attendance{}
	case CollectionStudents:
		e = &Student{}
	case CollectionClasses:
		e = &Class{}
	case CollectionCourses:
		e = &Course{}
	case CollectionSchools:
		e = &School{}
	default:
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
	}
	return e, nil
}
