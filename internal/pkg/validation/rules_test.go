package validation

import "testing"

func TestStudentEmailPattern(t *testing.T) {
	pattern := StudentEmailPattern("school.edu")

	tests := []struct {
		email string
		match bool
	}{
		{"22cs101@school.edu", true},
		{"99me999@school.edu", true},
		{"2cs101@school.edu", false},
		{"22c101@school.edu", false},
		{"22cs1011@school.edu", false},
		{"22CS101@school.edu", false},
		{"22cs101@other.edu", false},
		{"22cs101@schoolxedu", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := pattern.MatchString(tt.email); got != tt.match {
			t.Errorf("MatchString(%q) = %v, want %v", tt.email, got, tt.match)
		}
	}
}

func TestDepartmentFromEmail(t *testing.T) {
	tests := []struct {
		email string
		dept  string
		ok    bool
	}{
		{"22cs101@school.edu", "cs", true},
		{"99me999@school.edu", "me", true},
		{"22ec@x.co", "ec", true},
		{"ab", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		dept, ok := DepartmentFromEmail(tt.email)
		if dept != tt.dept || ok != tt.ok {
			t.Errorf("DepartmentFromEmail(%q) = %q, %v; want %q, %v", tt.email, dept, ok, tt.dept, tt.ok)
		}
	}
}

func TestGeneralEmailPattern(t *testing.T) {
	valid := []string{"22cs101@school.edu", "jane.doe@uni.example", "x_y+z@a-b.io"}
	invalid := []string{"not-an-email", "@school.edu", "jane@", "jane@school", "Jane@School.edu"}

	for _, email := range valid {
		if !CompiledPatterns.Email.MatchString(email) {
			t.Errorf("MatchString(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if CompiledPatterns.Email.MatchString(email) {
			t.Errorf("MatchString(%q) = true, want false", email)
		}
	}
}
