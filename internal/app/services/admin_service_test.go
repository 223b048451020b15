package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

type memAdminCourses struct {
	mu      sync.Mutex
	courses []*models.Course
}

func (s *memAdminCourses) Create(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.courses {
		if existing.CourseCode == course.CourseCode {
			return apperrors.ErrCourseAlreadyExists
		}
	}
	s.courses = append(s.courses, course)
	return nil
}

func (s *memAdminCourses) ListAll(ctx context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Course(nil), s.courses...), nil
}

func (s *memAdminCourses) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.courses)), nil
}

func (s *memAdminCourses) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.courses))
	s.courses = nil
	return n, nil
}

type memAdminStudents struct {
	mu       sync.Mutex
	students []*models.Student
}

func (s *memAdminStudents) ListAll(ctx context.Context) ([]*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Student(nil), s.students...), nil
}

func (s *memAdminStudents) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.students)), nil
}

func (s *memAdminStudents) CountOpted(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, st := range s.students {
		if st.OptedCourse != nil {
			n++
		}
	}
	return n, nil
}

func (s *memAdminStudents) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.students))
	s.students = nil
	return n, nil
}

type globalRecorder struct {
	mu     sync.Mutex
	events []string
}

func (g *globalRecorder) PublishGlobal(event string, data interface{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
}

func (g *globalRecorder) published() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.events...)
}

func intPtr(n int) *int { return &n }

func TestBulkCreateCourses(t *testing.T) {
	courses := &memAdminCourses{}
	notifier := &globalRecorder{}
	svc := NewAdminService(courses, &memAdminStudents{}, notifier, 60, zerolog.Nop())

	specs := []dto.CreateCourseRequest{
		{CourseCode: " CS101 ", CourseName: "Introduction to Computer Science", OfferingDepartment: "CS", AccessibleBy: []string{"CS", "EC"}},
		{CourseCode: "ec201", CourseName: "digital circuits", OfferingDepartment: "ec", SeatsAvailable: intPtr(30), AccessibleBy: []string{"ec"}},
	}

	created, specErrors, err := svc.BulkCreateCourses(context.Background(), specs)
	if err != nil {
		t.Fatalf("BulkCreateCourses returned error: %v", err)
	}
	if len(specErrors) != 0 {
		t.Fatalf("spec errors: %v", specErrors)
	}
	if len(created) != 2 {
		t.Fatalf("created %d courses, want 2", len(created))
	}

	if created[0].CourseCode != "cs101" {
		t.Errorf("course code = %q, want normalized %q", created[0].CourseCode, "cs101")
	}
	if created[0].SeatsAvailable != 60 {
		t.Errorf("default seats = %d, want 60", created[0].SeatsAvailable)
	}
	if created[0].AccessibleBy[0] != "cs" {
		t.Errorf("accessibleBy = %v, want lowercased tags", created[0].AccessibleBy)
	}
	if created[1].SeatsAvailable != 30 {
		t.Errorf("explicit seats = %d, want 30", created[1].SeatsAvailable)
	}

	events := notifier.published()
	if len(events) != 1 || events[0] != EventCourseCountUpdate {
		t.Errorf("published events = %v, want one %s", events, EventCourseCountUpdate)
	}
}

func TestBulkCreateCoursesPartialFailure(t *testing.T) {
	courses := &memAdminCourses{}
	svc := NewAdminService(courses, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())

	seed := []dto.CreateCourseRequest{{CourseCode: "cs101", CourseName: "intro", OfferingDepartment: "cs", AccessibleBy: []string{"cs"}}}
	if _, _, err := svc.BulkCreateCourses(context.Background(), seed); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	specs := []dto.CreateCourseRequest{
		{CourseCode: "cs101", CourseName: "intro again", OfferingDepartment: "cs", AccessibleBy: []string{"cs"}},
		{CourseCode: "", CourseName: "nameless", OfferingDepartment: "cs", AccessibleBy: []string{"cs"}},
		{CourseCode: "me105", CourseName: "engineering drawing", OfferingDepartment: "me", AccessibleBy: []string{"me"}},
	}

	created, specErrors, err := svc.BulkCreateCourses(context.Background(), specs)
	if err != nil {
		t.Fatalf("BulkCreateCourses returned error: %v", err)
	}
	if len(created) != 1 || created[0].CourseCode != "me105" {
		t.Errorf("created = %v, want just me105", created)
	}
	if len(specErrors) != 2 {
		t.Fatalf("spec errors = %v, want 2 entries", specErrors)
	}
	if specErrors[0].CourseCode != "cs101" {
		t.Errorf("first error for %q, want cs101", specErrors[0].CourseCode)
	}
}

func TestBulkCreateCoursesMissingDepartment(t *testing.T) {
	courses := &memAdminCourses{}
	svc := NewAdminService(courses, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())

	specs := []dto.CreateCourseRequest{
		{CourseCode: "cs101", CourseName: "intro", OfferingDepartment: "  ", AccessibleBy: []string{"cs"}},
	}

	created, specErrors, err := svc.BulkCreateCourses(context.Background(), specs)
	if err != nil {
		t.Fatalf("BulkCreateCourses returned error: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("created = %v, want none", created)
	}
	if len(specErrors) != 1 {
		t.Fatalf("spec errors = %v, want 1 entry", specErrors)
	}
	if !strings.Contains(specErrors[0].Error, "offeringDepartment") {
		t.Errorf("error = %q, want it to name offeringDepartment", specErrors[0].Error)
	}
}

func TestBulkCreateCoursesEmpty(t *testing.T) {
	svc := NewAdminService(&memAdminCourses{}, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())
	if _, _, err := svc.BulkCreateCourses(context.Background(), nil); err == nil {
		t.Fatal("empty spec list must be rejected")
	}
}

func TestReset(t *testing.T) {
	opted := "cs101"
	newState := func() (*memAdminCourses, *memAdminStudents) {
		return &memAdminCourses{courses: []*models.Course{{CourseCode: "cs101"}}},
			&memAdminStudents{students: []*models.Student{
				{Email: "22cs101@school.edu", OptedCourse: &opted},
				{Email: "22ec001@school.edu"},
			}}
	}

	t.Run("courses", func(t *testing.T) {
		courses, students := newState()
		notifier := &globalRecorder{}
		svc := NewAdminService(courses, students, notifier, 60, zerolog.Nop())

		if err := svc.Reset(context.Background(), ScopeCourses); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if n, _ := courses.CountAll(context.Background()); n != 0 {
			t.Errorf("courses left = %d, want 0", n)
		}
		if n, _ := students.CountAll(context.Background()); n != 2 {
			t.Errorf("students left = %d, want 2 (untouched)", n)
		}
		events := notifier.published()
		if len(events) != 2 || events[0] != EventCourseCountUpdate || events[1] != EventCourseStatisticsUpdate {
			t.Errorf("events = %v, want count then statistics update", events)
		}
	})

	t.Run("users", func(t *testing.T) {
		courses, students := newState()
		notifier := &globalRecorder{}
		svc := NewAdminService(courses, students, notifier, 60, zerolog.Nop())

		if err := svc.Reset(context.Background(), ScopeUsers); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if n, _ := students.CountAll(context.Background()); n != 0 {
			t.Errorf("students left = %d, want 0", n)
		}
		if n, _ := courses.CountAll(context.Background()); n != 1 {
			t.Errorf("courses left = %d, want 1 (untouched)", n)
		}
		if len(notifier.published()) != 0 {
			t.Error("user-only reset must not broadcast course events")
		}
	})

	t.Run("all", func(t *testing.T) {
		courses, students := newState()
		svc := NewAdminService(courses, students, &globalRecorder{}, 60, zerolog.Nop())

		if err := svc.Reset(context.Background(), ScopeAll); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		nc, _ := courses.CountAll(context.Background())
		ns, _ := students.CountAll(context.Background())
		if nc != 0 || ns != 0 {
			t.Errorf("left %d courses, %d students; want 0/0", nc, ns)
		}
	})

	t.Run("unknown scope", func(t *testing.T) {
		svc := NewAdminService(&memAdminCourses{}, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())
		if err := svc.Reset(context.Background(), ResetScope("everything")); err == nil {
			t.Fatal("unknown scope must be rejected")
		}
	})
}

func TestUserStats(t *testing.T) {
	opted := "cs101"
	students := &memAdminStudents{students: []*models.Student{
		{Email: "a@school.edu", OptedCourse: &opted},
		{Email: "b@school.edu", OptedCourse: &opted},
		{Email: "c@school.edu"},
	}}
	svc := NewAdminService(&memAdminCourses{}, students, &globalRecorder{}, 60, zerolog.Nop())

	stats, err := svc.UserStats(context.Background())
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.OptedUsers != 2 {
		t.Errorf("stats = %+v, want 3 total / 2 opted", stats)
	}
	if stats.OptedPercentage != 66.67 {
		t.Errorf("percentage = %v, want 66.67", stats.OptedPercentage)
	}
}

func TestUserStatsEmpty(t *testing.T) {
	svc := NewAdminService(&memAdminCourses{}, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())
	stats, err := svc.UserStats(context.Background())
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.OptedPercentage != 0 {
		t.Errorf("percentage = %v, want 0 for empty roster", stats.OptedPercentage)
	}
}

func TestCourseStats(t *testing.T) {
	courses := &memAdminCourses{courses: []*models.Course{
		{CourseCode: "cs101", CourseName: "intro", SeatsAvailable: 12, EnrolledStudents: make([]string, 48)},
		{CourseCode: "ec201", CourseName: "circuits", SeatsAvailable: 30},
	}}
	svc := NewAdminService(courses, &memAdminStudents{}, &globalRecorder{}, 60, zerolog.Nop())

	stats, err := svc.CourseStats(context.Background())
	if err != nil {
		t.Fatalf("CourseStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("rows = %d, want 2", len(stats))
	}
	if stats[0].Capacity != 60 || stats[0].Enrolled != 48 || stats[0].FillPercentage != 80 {
		t.Errorf("cs101 row = %+v, want capacity 60, enrolled 48, fill 80", stats[0])
	}
	if stats[1].FillPercentage != 0 {
		t.Errorf("ec201 fill = %v, want 0", stats[1].FillPercentage)
	}
}

func TestExportUsersCSV(t *testing.T) {
	opted := "cs101"
	students := &memAdminStudents{students: []*models.Student{
		{Name: "Jane Doe", Email: "22cs101@school.edu", RegisterID: "2022103045", Department: "cs", OptedCourse: &opted},
		{Name: "John Roe", Email: "22ec001@school.edu", RegisterID: "2022103046", Department: "ec"},
	}}
	svc := NewAdminService(&memAdminCourses{}, students, &globalRecorder{}, 60, zerolog.Nop())

	var buf bytes.Buffer
	if err := svc.ExportUsersCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ExportUsersCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 records:\n%s", len(lines), buf.String())
	}
	if lines[0] != "name,email,registerId,department,optedCourse" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Jane Doe,22cs101@school.edu,2022103045,cs,cs101" {
		t.Errorf("record = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("unopted student must have an empty trailing field: %q", lines[2])
	}
}
