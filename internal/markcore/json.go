package markcore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON writes e to w using the wire format documented in
// spec.md section 6:
//
//	{"type":"text","text":"…"}
//	{"type":"mark","name":"…","isTag":true,"attributes":{"k":"v"}}
//	{"type":"unmark","name":"…","isTag":true}
//
// isTag and attributes are omitted when false/absent, matching the
// "omitted when absent/empty default" rule. Attribute insertion order
// is preserved by writing the object's keys manually rather than
// going through encoding/json's map marshaling (which sorts keys).
func EncodeJSON(w io.Writer, e Event) error {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	switch e.Kind {
	case TextEvent:
		buf.WriteString(`"type":"text","text":`)
		if err := writeJSONString(buf, e.Text); err != nil {
			return err
		}
	case MarkEvent:
		buf.WriteString(`"type":"mark","name":`)
		if err := writeJSONString(buf, e.Name); err != nil {
			return err
		}
		if e.IsTag {
			buf.WriteString(`,"isTag":true`)
		}
		if e.Attributes.Len() > 0 {
			buf.WriteString(`,"attributes":{`)
			first := true
			var rangeErr error
			e.Attributes.Range(func(k, v string) bool {
				if !first {
					buf.WriteByte(',')
				}
				first = false
				if err := writeJSONString(buf, k); err != nil {
					rangeErr = err
					return false
				}
				buf.WriteByte(':')
				if err := writeJSONString(buf, v); err != nil {
					rangeErr = err
					return false
				}
				return true
			})
			if rangeErr != nil {
				return rangeErr
			}
			buf.WriteByte('}')
		}
	case UnmarkEvent:
		buf.WriteString(`"type":"unmark","name":`)
		if err := writeJSONString(buf, e.Name); err != nil {
			return err
		}
		if e.IsTag {
			buf.WriteString(`,"isTag":true`)
		}
	default:
		return fmt.Errorf("markanywhere: cannot encode event of kind %v", e.Kind)
	}
	buf.WriteByte('}')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// wireEvent mirrors the JSON wire shape for decode, using
// json.RawMessage for attributes so decodeOrderedAttributes can walk
// its keys token by token in the order they appear on the wire (a Go
// map would lose that order).
type wireEvent struct {
	Type       *string          `json:"type"`
	Text       *string          `json:"text"`
	Name       *string          `json:"name"`
	IsTag      bool             `json:"isTag"`
	Attributes *json.RawMessage `json:"attributes"`
}

// DecodeJSON reads one event from r in the wire format written by
// EncodeJSON. It fails with a *DecodeError, distinguishable from a
// successful decode, when type is absent or unknown, a mandatory
// field is missing, or the JSON itself is malformed. Its decoder may
// read past the end of the event, so each call needs a reader holding
// only that event.
func DecodeJSON(r io.Reader) (Event, error) {
	var w wireEvent
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Event{}, newDecodeError(-1, "", err.Error())
	}
	if w.Type == nil {
		return Event{}, newDecodeError(-1, "type", "missing")
	}
	switch *w.Type {
	case "text":
		if w.Text == nil {
			return Event{}, newDecodeError(-1, "text", "missing")
		}
		return NewText(*w.Text), nil
	case "mark":
		if w.Name == nil {
			return Event{}, newDecodeError(-1, "name", "missing")
		}
		var attrs *Attributes
		if w.Attributes != nil {
			a, err := decodeOrderedAttributes(*w.Attributes)
			if err != nil {
				return Event{}, newDecodeError(-1, "attributes", err.Error())
			}
			attrs = a
		}
		return NewMark(*w.Name, w.IsTag, attrs), nil
	case "unmark":
		if w.Name == nil {
			return Event{}, newDecodeError(-1, "name", "missing")
		}
		return NewUnmark(*w.Name, w.IsTag), nil
	default:
		return Event{}, newDecodeError(-1, "type", fmt.Sprintf("unknown type %q", *w.Type))
	}
}

// decodeOrderedAttributes walks a JSON object's tokens so the
// resulting Attributes preserves the key order found on the wire,
// instead of the unordered iteration a map[string]string would give.
func decodeOrderedAttributes(raw json.RawMessage) (*Attributes, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	attrs := NewAttributes()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		attrs.Set(key, value)
	}
	return attrs, nil
}
