package markcore_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
)

func roundTrip(t *testing.T, e markcore.Event) markcore.Event {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, markcore.EncodeJSON(&buf, e))
	got, err := markcore.DecodeJSON(&buf)
	assert.NoError(t, err)
	return got
}

func TestJSONRoundTripText(t *testing.T) {
	e := markcore.NewText("hello < world")
	got := roundTrip(t, e)
	if got.Kind != markcore.TextEvent || got.Text != e.Text {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestJSONRoundTripMarkWithAttributes(t *testing.T) {
	attrs := markcore.NewAttributes()
	attrs.Set("b", "2")
	attrs.Set("a", "1")
	e := markcore.NewMark("ns:tag", true, attrs)
	got := roundTrip(t, e)
	if got.Kind != markcore.MarkEvent || got.Name != e.Name || got.IsTag != e.IsTag || !got.Attributes.Equal(e.Attributes) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
	if got.Attributes.Keys()[0] != "b" {
		t.Fatalf("attribute insertion order not preserved: %v", got.Attributes.Keys())
	}
}

func TestJSONRoundTripUnmark(t *testing.T) {
	e := markcore.NewUnmark("p", false)
	got := roundTrip(t, e)
	if got.Kind != markcore.UnmarkEvent || got.Name != e.Name || got.IsTag != e.IsTag {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestJSONOmitsAbsentFields(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, markcore.EncodeJSON(&buf, markcore.NewMark("p", false, nil)))
	assert.Equal(t, `{"type":"mark","name":"p"}`, buf.String())
}

func TestJSONDecodeUnknownTypeFails(t *testing.T) {
	_, err := markcore.DecodeJSON(bytes.NewBufferString(`{"type":"bogus"}`))
	assert.NotNil(t, err)
	var de *markcore.DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestJSONDecodeMissingFieldFails(t *testing.T) {
	_, err := markcore.DecodeJSON(bytes.NewBufferString(`{"type":"mark"}`))
	assert.NotNil(t, err)
	var de *markcore.DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "name", de.Field)
}
