package validator

import (
	"testing"
	"time"
)

func TestIsRecognizedMeetingURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"zoom root", "https://zoom.us/j/123456", true},
		{"zoom subdomain", "https://us04web.zoom.us/j/123456?pwd=abc", true},
		{"google meet", "https://meet.google.com/abc-defg-hij", true},
		{"teams", "https://teams.microsoft.com/l/meetup-join/xyz", true},
		{"http scheme", "http://zoom.us/j/123456", false},
		{"unrecognized host", "https://example.com/meeting", false},
		{"suffix spoof", "https://notzoom.us.evil.com/j/1", false},
		{"embedded domain", "https://evil.com/zoom.us", false},
		{"empty", "", false},
		{"garbage", "://///", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecognizedMeetingURL(tt.url); got != tt.want {
				t.Errorf("IsRecognizedMeetingURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidHandle(t *testing.T) {
	valid := []string{"jane", "jane_doe", "jane-doe-42", "abc"}
	invalid := []string{"", "ab", "Jane", "jane doe", "jane!", "a-very-long-handle-over-thirty-chars"}

	for _, h := range valid {
		if !IsValidHandle(h) {
			t.Errorf("expected %q to be valid", h)
		}
	}
	for _, h := range invalid {
		if IsValidHandle(h) {
			t.Errorf("expected %q to be invalid", h)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("  <script>alert(1)</script>  "); got != "&lt;script&gt;alert(1)&lt;/script&gt;" {
		t.Errorf("unexpected sanitized value: %q", got)
	}
	if got := Sanitize("plain text"); got != "plain text" {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestSanitizeAllDropsEmpties(t *testing.T) {
	got := SanitizeAll([]string{" go ", "", "   ", "<b>rust</b>"})
	if len(got) != 2 || got[0] != "go" || got[1] != "&lt;b&gt;rust&lt;/b&gt;" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	valid := RegisterRequest{
		Email:           "jane@example.com",
		Password:        "correct-horse",
		FirstName:       "Jane",
		LastName:        "Doe",
		Handle:          "jane_doe",
		DOB:             time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		RegistrationKey: "key",
	}
	if errs := v.Validate(&valid); errs != nil {
		t.Fatalf("valid request rejected: %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password"},
		{"bad handle", func(r *RegisterRequest) { r.Handle = "Jane Doe" }, "handle"},
		{"missing key", func(r *RegisterRequest) { r.RegistrationKey = "" }, "registration_key"},
		{"missing dob", func(r *RegisterRequest) { r.DOB = time.Time{} }, "dob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := v.Validate(&req)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateSessionCreateRequest(t *testing.T) {
	v := New()

	valid := SessionCreateRequest{
		Name:       "Intro to Go",
		Categories: []string{"programming"},
		Difficulty: "beginner",
		Duration:   60,
		MeetingURL: "https://zoom.us/j/123456",
		EventDate:  time.Now().Add(24 * time.Hour),
	}
	if errs := v.Validate(&valid); errs != nil {
		t.Fatalf("valid request rejected: %v", errs)
	}

	bad := valid
	bad.Difficulty = "expert"
	if errs := v.Validate(&bad); len(errs) == 0 {
		t.Error("unknown difficulty accepted")
	}

	bad = valid
	bad.MeetingURL = "https://example.com/meeting"
	if errs := v.Validate(&bad); len(errs) == 0 {
		t.Error("unrecognized meeting domain accepted")
	}
}

func TestValidateContactHostRequest(t *testing.T) {
	v := New()

	if errs := v.Validate(&ContactHostRequest{SessionID: "s1", Message: "hi"}); errs != nil {
		t.Errorf("session-id variant rejected: %v", errs)
	}
	if errs := v.Validate(&ContactHostRequest{HostHandle: "jane", Message: "hi"}); errs != nil {
		t.Errorf("host-handle variant rejected: %v", errs)
	}
	if errs := v.Validate(&ContactHostRequest{Message: "hi"}); len(errs) == 0 {
		t.Error("request with neither target accepted")
	}
	if errs := v.Validate(&ContactHostRequest{SessionID: "s1"}); len(errs) == 0 {
		t.Error("empty message accepted")
	}
}
