// Package session implements the session & user resolver of §4.6:
// reconciling a possibly-provided user id, a possibly-set AOC_SESSION
// environment variable, and interactive prompts into one verified
// (session, user_id) pair, with the session token zeroized once no longer
// needed.
//
// Grounded on _examples/original_source/aoc-cli/src/config.rs's
// resolve_session_and_user_id/verify_session/prompt_session functions. Go
// has no zeroize crate in the example pack's dependency set, so Secret
// zeroizes its own backing byte slice directly -
// best-effort, since a string literal's backing array can still have been
// copied by the runtime before Secret ever saw it, same caveat the Rust
// Zeroizing wrapper documents for anything that touched the token first.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/joeycumines/aocrunner/internal/aocerr"
	"github.com/joeycumines/aocrunner/internal/httpclient"
)

// Secret holds a sensitive string as a mutable byte slice so it can be
// zeroized in place once no longer needed.
type Secret struct {
	b []byte
}

// NewSecret wraps s in a Secret. The caller should not retain s afterwards.
func NewSecret(s string) Secret {
	return Secret{b: []byte(s)}
}

// Expose returns the secret's current value. Returns "" once Zero has been
// called.
func (s Secret) Expose() string {
	return string(s.b)
}

// Empty reports whether the secret holds no bytes.
func (s Secret) Empty() bool {
	return len(s.b) == 0
}

// Zero overwrites the secret's backing bytes with zero, best-effort.
func (s *Secret) Zero() {
	for i := range s.b {
		s.b[i] = 0
	}
	s.b = nil
}

// Prompter is the interactive-input seam (§3 design notes: terminal
// pretty-printing / prompting is out of scope for this package's own
// behavior, but the resolver needs somewhere to ask). TerminalPrompter is
// the real implementation; tests substitute a scripted stub.
type Prompter interface {
	PromptUserID() (uint64, error)
	PromptSession(reason string) (Secret, error)
}

// TerminalPrompter prompts on a terminal, masking the session token as it
// is typed (golang.org/x/term.ReadPassword - the idiomatic stdlib-adjacent
// substitute for the example pack's rpassword dependency, which has no
// direct analogue anywhere in the examples).
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
	// Fd is the file descriptor ReadPassword reads from when In is a
	// terminal. Defaults to os.Stdin's fd.
	Fd int
}

// NewTerminalPrompter builds a TerminalPrompter reading from stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout, Fd: int(os.Stdin.Fd())}
}

func (p *TerminalPrompter) PromptUserID() (uint64, error) {
	fmt.Fprintln(p.Out, "No user ID provided. Enter your AOC user ID (found in your profile URL).")
	fmt.Fprint(p.Out, "User ID: ")
	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		return 0, fmt.Errorf("aocrunner: failed to read user id: %w", scanner.Err())
	}
	id, err := strconv.ParseUint(strings.TrimSpace(scanner.Text()), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("aocrunner: invalid user id: must be a number")
	}
	return id, nil
}

func (p *TerminalPrompter) PromptSession(reason string) (Secret, error) {
	fmt.Fprintln(p.Out, reason)
	fmt.Fprint(p.Out, "Enter AOC session key: ")
	b, err := term.ReadPassword(p.Fd)
	fmt.Fprintln(p.Out)
	if err != nil {
		return Secret{}, fmt.Errorf("aocrunner: failed to read session: %w", err)
	}
	if len(b) == 0 {
		return Secret{}, aocerr.ErrSessionRequired
	}
	return Secret{b: b}, nil
}

// Result is the resolved, verified session and user id.
type Result struct {
	Session Secret
	UserID  uint64
}

// Resolve implements §4.6's precedence: CLI flag > environment variable >
// interactive prompt, in that order, for both the session token and the
// user id, verifying the session against the HTTP collaborator whenever
// one is available.
func Resolve(ctx context.Context, client httpclient.Client, envSession string, providedUserID *uint64, submit bool, prompter Prompter) (Result, error) {
	userProvidedOrPrompted := providedUserID != nil
	var userID uint64
	if providedUserID != nil {
		userID = *providedUserID
	} else if envSession == "" {
		id, err := prompter.PromptUserID()
		if err != nil {
			return Result{}, err
		}
		userID = id
		userProvidedOrPrompted = true
	}

	var session Secret
	switch {
	case envSession != "":
		session = NewSecret(envSession)
	case submit:
		s, err := prompter.PromptSession("Session token required for submission")
		if err != nil {
			return Result{}, err
		}
		session = s
	default:
		session = Secret{}
	}

	if session.Empty() {
		// No session available: the user id must already have been
		// provided or prompted for (§4.6 rule: cache-only runs need no
		// session at all).
		return Result{Session: session, UserID: userID}, nil
	}

	var expected *uint64
	if userProvidedOrPrompted {
		expected = &userID
	}
	verified, err := VerifySession(ctx, client, session.Expose(), expected)
	if err != nil {
		return Result{}, err
	}
	return Result{Session: session, UserID: verified}, nil
}

// VerifySession verifies session against the HTTP collaborator, checking it
// against expected if non-nil (§4.6 rule 4: UserIdMismatch).
func VerifySession(ctx context.Context, client httpclient.Client, session string, expected *uint64) (uint64, error) {
	info, err := client.VerifySession(ctx, session)
	if err != nil {
		return 0, err
	}
	if info.UserID == nil {
		return 0, fmt.Errorf("aocrunner: invalid session: could not fetch user id")
	}
	if expected != nil && *info.UserID != *expected {
		return 0, &aocerr.UserIdMismatch{Expected: *expected, Actual: *info.UserID}
	}
	return *info.UserID, nil
}
