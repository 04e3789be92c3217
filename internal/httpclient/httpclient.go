// Package httpclient implements the HTTP collaborator of §6.2: the three
// blocking operations an Advent-of-Code solver runner needs against the
// puzzle site, with response classification grounded literally on
// _examples/original_source/aoc-http-client/src/parser.rs's regex and
// substring rules.
//
// No HTML-parsing library appears anywhere in the example pack's
// domain-relevant dependency set (justified in DESIGN.md), so <main>
// text extraction here is a small regex-based tag stripper rather than a
// full DOM walk - adequate because the puzzle site's response bodies are
// simple, machine-generated HTML, not arbitrary untrusted markup.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/joeycumines/aocrunner/internal/aocerr"
)

var (
	userIDPattern   = regexp.MustCompile(`\(anonymous user #(\d+)\)`)
	throttlePattern = regexp.MustCompile(`You have (.+?) left to wait\.`)
	mainTagPattern  = regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`)
	htmlTagPattern  = regexp.MustCompile(`(?s)<[^>]*>`)
)

// SessionInfo is the result of verifying a session token (§3: the spec's
// SessionInfo).
type SessionInfo struct {
	UserID *uint64
}

// Client is the HTTP collaborator contract (§6.2). A *Collaborator
// implements it against the real site; tests substitute a stub.
type Client interface {
	VerifySession(ctx context.Context, session string) (SessionInfo, error)
	GetInput(ctx context.Context, year uint16, day uint8, session string) (string, error)
	SubmitAnswer(ctx context.Context, year uint16, day uint8, part uint8, answer, session string) (Outcome, error)
}

// Outcome mirrors model.SubmissionOutcome's shape without importing the
// engine's model package, keeping httpclient a leaf dependency; the engine
// translates Outcome into model.SubmissionOutcome at the call site.
type Outcome struct {
	Kind OutcomeKind
	Wait time.Duration // set only for OutcomeThrottled, and only if parsed
}

// OutcomeKind enumerates the terminal classifications of §6.2's mapping.
type OutcomeKind int

const (
	OutcomeCorrect OutcomeKind = iota
	OutcomeIncorrect
	OutcomeAlreadyCompleted
	OutcomeThrottled
)

// Collaborator is the net/http-backed Client implementation.
type Collaborator struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewCollaborator builds a Collaborator against baseURL (e.g.
// "https://adventofcode.com"), using a client that never follows redirects
// - §6.2 requires verify_session to observe the raw 3xx, not whatever it
// redirects to.
func NewCollaborator(baseURL string) *Collaborator {
	return &Collaborator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Collaborator) do(ctx context.Context, method, path string, body io.Reader, session string, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: "session", Value: session})
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.HTTPClient.Do(req)
}

// VerifySession implements §6.2's verify_session.
func (c *Collaborator) VerifySession(ctx context.Context, session string) (SessionInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, "/settings", nil, session, "")
	if err != nil {
		return SessionInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SessionInfo{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SessionInfo{}, err
	}
	id, ok := ExtractUserID(string(body))
	if !ok {
		return SessionInfo{}, nil
	}
	return SessionInfo{UserID: &id}, nil
}

// GetInput implements §6.2's get_input.
func (c *Collaborator) GetInput(ctx context.Context, year uint16, day uint8, session string) (string, error) {
	path := fmt.Sprintf("/%d/day/%d/input", year, day)
	resp, err := c.do(ctx, http.MethodGet, path, nil, session, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &aocerr.InvalidStatus{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SubmitAnswer implements §6.2's submit_answer.
func (c *Collaborator) SubmitAnswer(ctx context.Context, year uint16, day uint8, part uint8, answer, session string) (Outcome, error) {
	path := fmt.Sprintf("/%d/day/%d/answer", year, day)
	form := url.Values{}
	form.Set("level", fmt.Sprint(part))
	form.Set("answer", answer)

	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), session, "application/x-www-form-urlencoded")
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{}, &aocerr.InvalidStatus{Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, err
	}
	return ClassifyResponse(string(body))
}

// ExtractUserID pulls the numeric user id out of a settings-page response
// body, per §6.2's `\(anonymous user #(\d+)\)` regex.
func ExtractUserID(html string) (uint64, bool) {
	m := userIDPattern.FindStringSubmatch(html)
	if m == nil {
		return 0, false
	}
	var id uint64
	if _, err := fmt.Sscanf(m[1], "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}

// ExtractMainText extracts the text content of the response body's <main>
// element, stripping nested tags. Returns an error if no <main> element is
// present (§6.2 assumes a well-formed puzzle-site response).
func ExtractMainText(html string) (string, error) {
	m := mainTagPattern.FindStringSubmatch(html)
	if m == nil {
		return "", fmt.Errorf("httpclient: no <main> element in response")
	}
	stripped := htmlTagPattern.ReplaceAllString(m[1], "")
	return stripped, nil
}

// ClassifyResponse implements §6.2's submission-outcome mapping.
func ClassifyResponse(html string) (Outcome, error) {
	text, err := ExtractMainText(html)
	if err != nil {
		return Outcome{}, err
	}

	switch {
	case strings.Contains(text, "not the right answer"):
		return Outcome{Kind: OutcomeIncorrect}, nil
	case strings.Contains(text, "already complete it"):
		return Outcome{Kind: OutcomeAlreadyCompleted}, nil
	case strings.Contains(text, "gave an answer too recently"):
		wait, _ := extractThrottleWait(text)
		return Outcome{Kind: OutcomeThrottled, Wait: wait}, nil
	default:
		return Outcome{Kind: OutcomeCorrect}, nil
	}
}

func extractThrottleWait(text string) (time.Duration, bool) {
	m := throttlePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	d, err := ParseHumanDuration(m[1])
	if err != nil {
		return 0, false
	}
	return d, true
}

// humanDurationPattern matches one "<number><unit>" component of a
// humanized duration string such as "3m 20s" or "1h 2m 3s".
var humanDurationPattern = regexp.MustCompile(`(\d+)\s*(ms|h|m|s)`)

// ParseHumanDuration parses the humanized duration strings the puzzle
// site embeds in throttle messages ("3m 20s", "45s", "1h 2m"). Unlike
// time.ParseDuration, it tolerates spaces between components and accepts
// only the units the site actually emits.
func ParseHumanDuration(s string) (time.Duration, error) {
	matches := humanDurationPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("httpclient: invalid duration %q", s)
	}
	var total time.Duration
	for _, m := range matches {
		var n int64
		if _, err := fmt.Sscanf(m[1], "%d", &n); err != nil {
			return 0, fmt.Errorf("httpclient: invalid duration component %q", m[0])
		}
		switch m[2] {
		case "h":
			total += time.Duration(n) * time.Hour
		case "m":
			total += time.Duration(n) * time.Minute
		case "s":
			total += time.Duration(n) * time.Second
		case "ms":
			total += time.Duration(n) * time.Millisecond
		}
	}
	return total, nil
}
