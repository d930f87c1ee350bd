package extraction_test

import (
	"testing"
	"time"

	"github.com/j2kenton/jobsift/internal/extraction"
)

func TestExtractCompany(t *testing.T) {
	e := extraction.New()

	tests := []struct {
		name    string
		subject string
		body    string
		sender  string
		want    string
	}{
		{
			name:    "application to phrase",
			subject: "Your application to Stripe",
			body:    "We received your materials.",
			sender:  "jobs@stripe.com",
			want:    "Stripe",
		},
		{
			name:    "interview with phrase",
			subject: "Interview with Acme",
			body:    "Details below.",
			sender:  "jane@gmail.com",
			want:    "Acme",
		},
		{
			name:    "on behalf of phrase",
			subject: "Next steps",
			body:    "I am reaching out on behalf of Initech.",
			sender:  "recruiter@agency.io",
			want:    "Initech",
		},
		{
			name:    "sender domain fallback",
			subject: "Hello",
			body:    "Quick note.",
			sender:  "jane@globex.com",
			want:    "Globex",
		},
		{
			name:    "sender domain fallback with subdomain",
			subject: "Hello",
			body:    "Quick note.",
			sender:  "notify@mail.greenhouse.globex.com",
			want:    "Globex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract(tt.subject, tt.body, tt.sender)
			if f.Company == nil {
				t.Fatal("company not extracted")
			}
			if *f.Company != tt.want {
				t.Errorf("company: got %q, want %q", *f.Company, tt.want)
			}
		})
	}

	t.Run("free mail sender yields nothing", func(t *testing.T) {
		f := e.Extract("Hello", "Quick note.", "jane@gmail.com")
		if f.Company != nil {
			t.Errorf("company: got %q, want nil", *f.Company)
		}
	})
}

func TestExtractPosition(t *testing.T) {
	e := extraction.New()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "for the role phrase",
			body: "Thank you for applying for the Backend Engineer position.",
			want: "Backend Engineer",
		},
		{
			name: "title pattern",
			body: "We think you would be a great Senior Software Engineer here.",
			want: "Senior Software Engineer",
		},
		{
			name: "title in listing",
			body: "Role: Data Scientist\nLocation: remote",
			want: "Data Scientist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract("Update", tt.body, "jobs@acme.com")
			if f.Position == nil {
				t.Fatal("position not extracted")
			}
			if *f.Position != tt.want {
				t.Errorf("position: got %q, want %q", *f.Position, tt.want)
			}
		})
	}
}

func TestExtractAuxiliaryFields(t *testing.T) {
	e := extraction.New()

	body := "Reach me at Jane.Doe@acme.com.\n" +
		"Listing: https://boards.greenhouse.io/acme/jobs/12345\n" +
		"The range is $150,000 - $180,000 per year."

	f := e.Extract("Details", body, "jane@acme.com")

	if f.ContactEmail == nil || *f.ContactEmail != "jane.doe@acme.com" {
		t.Errorf("contact email: got %v", f.ContactEmail)
	}
	if f.JobURL == nil || *f.JobURL != "https://boards.greenhouse.io/acme/jobs/12345" {
		t.Errorf("job url: got %v", f.JobURL)
	}
	if f.Salary == nil {
		t.Error("salary not extracted")
	}
}

func TestExtractLocation(t *testing.T) {
	e := extraction.New()

	t.Run("meeting link preferred over address", func(t *testing.T) {
		body := "We are located in Berlin, Germany. Join here: https://zoom.us/j/5551234"
		f := e.Extract("Interview", body, "jane@acme.com")
		if f.Location == nil || *f.Location != "https://zoom.us/j/5551234" {
			t.Errorf("location: got %v, want zoom link", f.Location)
		}
	})

	t.Run("physical address", func(t *testing.T) {
		f := e.Extract("Interview", "Our office in Berlin, Germany.", "jane@acme.com")
		if f.Location == nil || *f.Location != "Berlin, Germany" {
			t.Errorf("location: got %v, want Berlin, Germany", f.Location)
		}
	})
}

func TestExtractPeople(t *testing.T) {
	e := extraction.New()

	body := "Your recruiter: Maria Lopez. You will speak with David Chen on Friday."
	f := e.Extract("Interview", body, "jane@acme.com")

	if f.RecruiterName == nil || *f.RecruiterName != "Maria Lopez" {
		t.Errorf("recruiter: got %v", f.RecruiterName)
	}
	if f.InterviewerName == nil || *f.InterviewerName != "David Chen" {
		t.Errorf("interviewer: got %v", f.InterviewerName)
	}
}

func TestExtractAppliedDate(t *testing.T) {
	e := extraction.New()

	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{
			name: "iso date",
			body: "Application received on 2026-03-14.",
			want: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "written date",
			body: "You applied Mar 14, 2026 via our portal.",
			want: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := e.Extract("Update", tt.body, "jobs@acme.com")
			if f.AppliedDate == nil {
				t.Fatal("applied date not extracted")
			}
			if !f.AppliedDate.Equal(tt.want) {
				t.Errorf("applied date: got %v, want %v", f.AppliedDate, tt.want)
			}
		})
	}
}

func TestIsAutomatedAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"noreply@acme.com", true},
		{"no-reply@acme.com", true},
		{"do_not_reply@workday.com", true},
		{"notifications@lever.co", true},
		{"jane.doe@acme.com", false},
		{"recruiting@acme.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := extraction.IsAutomatedAddress(tt.addr); got != tt.want {
				t.Errorf("IsAutomatedAddress(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestIsMeetingURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://zoom.us/j/123", true},
		{"https://us02web.zoom.us/j/123", true},
		{"https://meet.google.com/abc-def", true},
		{"https://teams.microsoft.com/l/meetup-join/xyz", true},
		{"Berlin, Germany", false},
		{"https://acme.com/careers", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := extraction.IsMeetingURL(tt.url); got != tt.want {
				t.Errorf("IsMeetingURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestFieldsOverlay(t *testing.T) {
	base := extraction.Fields{
		Company: strPtr("Acme"),
		Salary:  strPtr("$100k"),
	}
	over := extraction.Fields{
		Company:  strPtr("Acme Inc"),
		Position: strPtr("Backend Engineer"),
	}

	merged := base.Overlay(over)

	if *merged.Company != "Acme Inc" {
		t.Errorf("company: got %q", *merged.Company)
	}
	if merged.Position == nil || *merged.Position != "Backend Engineer" {
		t.Errorf("position: got %v", merged.Position)
	}
	if merged.Salary == nil || *merged.Salary != "$100k" {
		t.Errorf("salary: got %v", merged.Salary)
	}
}

func strPtr(s string) *string {
	return &s
}
