package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUserID(t *testing.T) {
	id, ok := ExtractUserID(`<html><body>prefix (anonymous user #123456) suffix</body></html>`)
	require.True(t, ok)
	assert.Equal(t, uint64(123456), id)

	_, ok = ExtractUserID(`<html><body>no pattern here</body></html>`)
	assert.False(t, ok)
}

func TestExtractMainText(t *testing.T) {
	text, err := ExtractMainText(`<html><body><main><p>hello</p><div><span>nested</span></div></main></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "hello")
	assert.Contains(t, text, "nested")
	assert.NotContains(t, text, "<")
}

func TestExtractMainText_MissingMain(t *testing.T) {
	_, err := ExtractMainText(`<html><body><div>no main here</div></body></html>`)
	assert.Error(t, err)
}

func TestClassifyResponse_Incorrect(t *testing.T) {
	out, err := ClassifyResponse(`<html><body><main>That's not the right answer.</main></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIncorrect, out.Kind)
}

func TestClassifyResponse_AlreadyCompleted(t *testing.T) {
	out, err := ClassifyResponse(`<html><body><main>You already complete it.</main></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyCompleted, out.Kind)
}

func TestClassifyResponse_ThrottledWithDuration(t *testing.T) {
	out, err := ClassifyResponse(`<html><body><main>You gave an answer too recently. You have 3m 20s left to wait.</main></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, OutcomeThrottled, out.Kind)
	assert.Equal(t, 3*time.Minute+20*time.Second, out.Wait)
}

func TestClassifyResponse_ThrottledWithoutDuration(t *testing.T) {
	out, err := ClassifyResponse(`<html><body><main>You gave an answer too recently.</main></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, OutcomeThrottled, out.Kind)
	assert.Zero(t, out.Wait)
}

func TestClassifyResponse_Correct(t *testing.T) {
	out, err := ClassifyResponse(`<html><body><main>That's the right answer!</main></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, out.Kind)
}

func TestParseHumanDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"3m 20s":   3*time.Minute + 20*time.Second,
		"45s":      45 * time.Second,
		"1h 2m":    time.Hour + 2*time.Minute,
		"20ms":     20 * time.Millisecond,
		"1s 500ms": time.Second + 500*time.Millisecond,
	}
	for input, want := range cases {
		got, err := ParseHumanDuration(input)
		require.NoErrorf(t, err, "input %q", input)
		assert.Equalf(t, want, got, "input %q", input)
	}
}

func TestParseHumanDuration_Invalid(t *testing.T) {
	_, err := ParseHumanDuration("invalid duration")
	assert.Error(t, err)
}
