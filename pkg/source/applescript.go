package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/robertrahardja/mac-contacts-extract/internal/logger"
	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

const defaultOsascript = "osascript"

// countScript asks Contacts.app for the number of people.
const countScript = `Application("Contacts").people.length`

// personScriptTemplate reads one person and emits a single JSON document.
// Every accessor is guarded so a missing sub-field never poisons the rest
// of the record. The index placeholder is 0-based on the JXA side.
const personScriptTemplate = `(() => {
  const app = Application("Contacts");
  const p = app.people[%d];
  const str = (get) => { try { const v = get(); return v == null ? null : String(v); } catch (e) { return null; } };
  const labeled = (get) => {
    try {
      return get().map((e) => ({ label: str(() => e.label()), value: str(() => e.value()) }));
    } catch (e) { return []; }
  };
  const birthday = () => {
    try {
      const d = p.birthDate();
      if (d == null) { return null; }
      return { month: d.getMonth() + 1, day: d.getDate(), year: d.getFullYear() };
    } catch (e) { return null; }
  };
  const addresses = () => {
    try {
      return p.addresses().map((a) => ({
        label: str(() => a.label()),
        street: str(() => a.street()),
        city: str(() => a.city()),
        state: str(() => a.state()),
        zip: str(() => a.zip()),
        country: str(() => a.country()),
      }));
    } catch (e) { return []; }
  };
  return JSON.stringify({
    firstName: str(() => p.firstName()),
    lastName: str(() => p.lastName()),
    middleName: str(() => p.middleName()),
    nickname: str(() => p.nickname()),
    namePrefix: str(() => p.title()),
    nameSuffix: str(() => p.suffix()),
    organization: str(() => p.organization()),
    jobTitle: str(() => p.jobTitle()),
    department: str(() => p.department()),
    note: str(() => p.note()),
    birthday: birthday(),
    emails: labeled(() => p.emails()),
    phones: labeled(() => p.phones()),
    addresses: addresses(),
    urls: labeled(() => p.urls()),
    socialProfiles: labeled(() => p.socialProfiles()),
    relatedNames: labeled(() => p.relatedNames()),
    instantMessages: labeled(() => p.instantMessages()),
  });
})()`

// AppleScript reads contacts from the macOS Contacts application through
// the osascript bridge, one JXA invocation per record. Each invocation
// runs under its own deadline so a hung Contacts.app costs one position,
// not the run.
type AppleScript struct {
	binary  string
	timeout time.Duration
}

// AppleScriptOption configures the bridge.
type AppleScriptOption func(*AppleScript)

// WithTimeout sets the per-call time budget.
func WithTimeout(d time.Duration) AppleScriptOption {
	return func(s *AppleScript) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithBinary overrides the osascript binary path.
func WithBinary(path string) AppleScriptOption {
	return func(s *AppleScript) {
		if path != "" {
			s.binary = path
		}
	}
}

// NewAppleScript creates the Contacts.app source.
func NewAppleScript(opts ...AppleScriptOption) *AppleScript {
	s := &AppleScript{
		binary:  defaultOsascript,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count implements Source.
func (s *AppleScript) Count(ctx context.Context) (int, error) {
	out, err := s.run(ctx, countScript)
	if err != nil {
		return 0, fmt.Errorf("%w: count query: %v", ErrSourceUnavailable, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected count output %q", ErrSourceUnavailable, strings.TrimSpace(out))
	}
	return n, nil
}

// Person implements Source.
func (s *AppleScript) Person(ctx context.Context, position int) (*contacts.Person, error) {
	script := fmt.Sprintf(personScriptTemplate, position-1)
	out, err := s.run(ctx, script)
	if err != nil {
		logger.Debug("person lookup failed", "position", position, "error", err)
		return nil, fmt.Errorf("%w: position %d: %v", ErrAbsent, position, err)
	}
	person, err := parsePerson([]byte(strings.TrimSpace(out)))
	if err != nil {
		logger.Debug("person payload malformed", "position", position, "error", err)
		return nil, fmt.Errorf("%w: position %d: %v", ErrAbsent, position, err)
	}
	return person, nil
}

// run executes one script under the per-call deadline.
func (s *AppleScript) run(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary, "-l", "JavaScript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("timed out after %s", s.timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%v: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// Bridge payload types. The script emits null for absent fields, which is
// how absence stays distinguishable from "" on this side.
type personPayload struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	MiddleName   *string `json:"middleName"`
	Nickname     *string `json:"nickname"`
	NamePrefix   *string `json:"namePrefix"`
	NameSuffix   *string `json:"nameSuffix"`
	Organization *string `json:"organization"`
	JobTitle     *string `json:"jobTitle"`
	Department   *string `json:"department"`
	Note         *string `json:"note"`

	Birthday *struct {
		Month int `json:"month"`
		Day   int `json:"day"`
		Year  int `json:"year"`
	} `json:"birthday"`

	Emails          []labeledPayload `json:"emails"`
	Phones          []labeledPayload `json:"phones"`
	Addresses       []addressPayload `json:"addresses"`
	URLs            []labeledPayload `json:"urls"`
	SocialProfiles  []labeledPayload `json:"socialProfiles"`
	RelatedNames    []labeledPayload `json:"relatedNames"`
	InstantMessages []labeledPayload `json:"instantMessages"`
}

type labeledPayload struct {
	Label *string `json:"label"`
	Value *string `json:"value"`
}

type addressPayload struct {
	Label   *string `json:"label"`
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Country *string `json:"country"`
}

// parsePerson decodes one bridge payload into the domain model.
func parsePerson(data []byte) (*contacts.Person, error) {
	var payload personPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode person payload: %w", err)
	}

	p := &contacts.Person{
		FirstName:    optField(payload.FirstName),
		LastName:     optField(payload.LastName),
		MiddleName:   optField(payload.MiddleName),
		Nickname:     optField(payload.Nickname),
		NamePrefix:   optField(payload.NamePrefix),
		NameSuffix:   optField(payload.NameSuffix),
		Organization: optField(payload.Organization),
		JobTitle:     optField(payload.JobTitle),
		Department:   optField(payload.Department),
		Note:         optField(payload.Note),

		Emails:         labeledValues(payload.Emails),
		Phones:         labeledValues(payload.Phones),
		URLs:           labeledValues(payload.URLs),
		SocialProfiles: labeledValues(payload.SocialProfiles),
		RelatedNames:   labeledValues(payload.RelatedNames),
		IMHandles:      labeledValues(payload.InstantMessages),
	}

	if payload.Birthday != nil {
		p.Birthday = &contacts.Birthday{
			Month: payload.Birthday.Month,
			Day:   payload.Birthday.Day,
			Year:  payload.Birthday.Year,
		}
	}

	for _, a := range payload.Addresses {
		if v := composeAddress(a); v != "" {
			p.Addresses = append(p.Addresses, contacts.LabeledValue{
				Label: deref(a.Label),
				Value: v,
			})
		}
	}

	return p, nil
}

// composeAddress joins the structured parts into one printable line:
// "street, city, state zip, country".
func composeAddress(a addressPayload) string {
	var b strings.Builder
	for _, part := range []struct {
		value string
		sep   string
	}{
		{deref(a.Street), ""},
		{deref(a.City), ", "},
		{deref(a.State), ", "},
		{deref(a.Zip), " "},
		{deref(a.Country), ", "},
	} {
		v := strings.TrimSpace(part.value)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(part.sep)
		}
		b.WriteString(v)
	}
	return b.String()
}

func optField(v *string) contacts.Field {
	if v == nil {
		return contacts.Absent
	}
	return contacts.Some(strings.TrimSpace(*v))
}

func labeledValues(in []labeledPayload) []contacts.LabeledValue {
	if len(in) == 0 {
		return nil
	}
	out := make([]contacts.LabeledValue, 0, len(in))
	for _, e := range in {
		if e.Value == nil || strings.TrimSpace(*e.Value) == "" {
			continue
		}
		out = append(out, contacts.LabeledValue{
			Label: deref(e.Label),
			Value: strings.TrimSpace(*e.Value),
		})
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
