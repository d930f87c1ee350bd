package extraction

import (
	"regexp"
	"strings"
	"time"
)

// Extractor applies pattern rules to email text. It is stateless and safe
// for concurrent use; construct once and share.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

var (
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:application (?:to|at|with)|applying (?:to|at)|position at|role at|joining|interview (?:at|with))\s+([A-Z][\w&.\- ]{1,40}?)(?:[.,!\n]|$)`),
		regexp.MustCompile(`(?i)thank you for (?:applying|your (?:application|interest))[^.\n]*?\bto\s+([A-Z][\w&.\- ]{1,40}?)(?:[.,!\n]|$)`),
		regexp.MustCompile(`(?i)on behalf of\s+([A-Z][\w&.\- ]{1,40}?)(?:[.,!\n]|$)`),
	}

	positionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:position|role|opening|vacancy)\s+(?:of|as|for)?\s*[:\-]?\s*["“]?([A-Za-z][\w+#/\- ]{2,50}?)["”]?(?:\s+(?:position|role|at)\b|[.,!\n]|$)`),
		regexp.MustCompile(`(?i)for the\s+([A-Za-z][\w+#/\- ]{2,50}?)\s+(?:position|role|opening)`),
		regexp.MustCompile(`(?i)\b((?:senior|junior|staff|principal|lead)?\s*(?:software|backend|frontend|full[\- ]?stack|data|platform|devops|machine learning|ML|QA|site reliability)\s+(?:engineer|developer|scientist|analyst|architect))\b`),
	}

	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	jobURLPattern = regexp.MustCompile(`https?://[^\s<>"]+(?:job|career|position|apply|greenhouse|lever|workday|ashby)[^\s<>"]*`)

	salaryPattern = regexp.MustCompile(`(?i)(?:[$€£¥]\s?\d[\d,.]*\s?[kK]?(?:\s?[-–]\s?[$€£¥]?\s?\d[\d,.]*\s?[kK]?)?(?:\s?(?:per\s+(?:year|annum|month|hour)|/(?:yr|year|mo|month|hr|hour)|annually))?|\d[\d,.]*\s?[kK]?\s?(?:USD|EUR|GBP|CNY|RMB|元|万)(?:\s?(?:per\s+(?:year|month)|/(?:yr|mo)))?)`)

	meetingURLPattern = regexp.MustCompile(`https?://(?:[\w\-]+\.)?(?:zoom\.us|meet\.google\.com|teams\.microsoft\.com|webex\.com)/[^\s<>"]*`)
	locationPattern   = regexp.MustCompile(`(?i)(?:located in|location|office in|on[\- ]?site (?:in|at)|based in)\s*[:\-]?\s*([A-Z][\w.\- ]+(?:,\s*[A-Z][\w.\- ]+)?)`)

	recruiterPattern   = regexp.MustCompile(`(?i)(?:recruiter|talent (?:partner|acquisition)|hiring coordinator)[\s:,\-]*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	interviewerPattern = regexp.MustCompile(`(?i)(?:interview(?:er)? (?:with|is|will be)|meeting with|speak with)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

	appliedDatePattern = regexp.MustCompile(`(?i)(?:applied|application (?:received|submitted))\s+(?:on\s+)?(\d{4}-\d{2}-\d{2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})`)

	noreplyPattern = regexp.MustCompile(`(?i)^(?:no[\-._]?reply|do[\-._]?not[\-._]?reply|notifications?|auto(?:mated)?[\-._]?(?:mailer|sender)?)@`)
)

var freeMailDomains = map[string]bool{
	"gmail.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
	"yahoo.com":   true,
	"icloud.com":  true,
	"qq.com":      true,
	"163.com":     true,
	"126.com":     true,
}

// Extract applies all pattern rules to the subject, body, and sender of an
// email and returns whatever fields matched. A miss is an empty optional,
// never an error.
func (e *Extractor) Extract(subject, body, sender string) Fields {
	var f Fields
	text := subject + "\n" + body

	f.Company = firstMatch(companyPatterns, text)
	if f.Company == nil {
		f.Company = companyFromSender(sender)
	}

	f.Position = firstMatch(positionPatterns, text)

	if m := emailPattern.FindString(body); m != "" {
		contact := strings.ToLower(m)
		f.ContactEmail = &contact
	}

	if m := jobURLPattern.FindString(text); m != "" {
		url := strings.TrimRight(m, ".,;)")
		f.JobURL = &url
	}

	if m := salaryPattern.FindString(text); m != "" {
		salary := strings.TrimSpace(m)
		f.Salary = &salary
	}

	// Virtual meeting links take precedence over physical addresses.
	if m := meetingURLPattern.FindString(text); m != "" {
		loc := strings.TrimRight(m, ".,;)")
		f.Location = &loc
	} else if m := locationPattern.FindStringSubmatch(text); len(m) > 1 {
		loc := cleanValue(m[1])
		f.Location = &loc
	}

	if m := recruiterPattern.FindStringSubmatch(text); len(m) > 1 {
		name := cleanValue(m[1])
		f.RecruiterName = &name
	}
	if m := interviewerPattern.FindStringSubmatch(text); len(m) > 1 {
		name := cleanValue(m[1])
		f.InterviewerName = &name
	}

	if m := appliedDatePattern.FindStringSubmatch(text); len(m) > 1 {
		if t, ok := parseDate(m[1]); ok {
			f.AppliedDate = &t
		}
	}

	return f
}

// IsAutomatedAddress reports whether addr is a no-reply or automated sender.
func IsAutomatedAddress(addr string) bool {
	return noreplyPattern.MatchString(strings.TrimSpace(addr))
}

// IsMeetingURL reports whether s is a virtual meeting link.
func IsMeetingURL(s string) bool {
	return meetingURLPattern.MatchString(s)
}

func firstMatch(patterns []*regexp.Regexp, text string) *string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			v := cleanValue(m[1])
			if v != "" {
				return &v
			}
		}
	}
	return nil
}

// companyFromSender derives a company name from the sender's domain unless
// it is a free-mail provider or automated relay.
func companyFromSender(sender string) *string {
	at := strings.LastIndex(sender, "@")
	if at < 0 {
		return nil
	}

	domain := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(sender[at+1:]), ">"))
	if freeMailDomains[domain] {
		return nil
	}

	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return nil
	}

	// mail.greenhouse.acme.com -> acme
	name := parts[len(parts)-2]
	if name == "" {
		return nil
	}

	company := strings.ToUpper(name[:1]) + name[1:]
	return &company
}

func cleanValue(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " .,:;-")
}

func parseDate(s string) (time.Time, bool) {
	layouts := []string{"2006-01-02", "Jan 2, 2006", "Jan 2 2006", "January 2, 2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
