package markup

import "strings"

// DefaultBullet labels list items that carry no explicit label.
const DefaultBullet = "•"

// SegmentKind classifies a top-level span of the normalized stream.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota
	SegmentList
)

// Segment is either a plain run of tokens or a list of items.
type Segment struct {
	Kind  SegmentKind
	Body  Stream // SegmentPlain only
	Items []Item // SegmentList only
}

// Item is one entry of a list segment. Explicit reports whether Label came
// from a bracketed \item argument rather than the bullet default.
type Item struct {
	Label    string
	Explicit bool
	Body     Stream
}

// Split partitions a normalized stream into plain and list segments, in
// order. Formatting sentinels stay embedded in the bodies. A list with no
// end marker runs to the end of the stream; list markers nested inside a
// list, and item or end markers outside one, become literal text.
func Split(s Stream) []Segment {
	var segs []Segment
	var plain Stream

	flush := func() {
		if len(plain) > 0 {
			segs = append(segs, Segment{Kind: SegmentPlain, Body: plain})
			plain = nil
		}
	}

	for i := 0; i < len(s); i++ {
		t := s[i]
		switch t.Kind {
		case KindListStart:
			flush()
			end := i + 1
			for end < len(s) && s[end].Kind != KindListEnd {
				end++
			}
			segs = append(segs, Segment{Kind: SegmentList, Items: splitItems(s[i+1 : end])})
			i = end
		case KindListEnd, KindItem:
			plain = appendToken(plain, literal(t))
		default:
			plain = appendToken(plain, t)
		}
	}
	flush()
	return segs
}

// splitItems cuts the content of one list at its item boundaries.
func splitItems(content Stream) []Item {
	var items []Item
	cur := Item{Label: DefaultBullet}
	var body Stream

	flush := func() {
		b := trimStream(body)
		if isBlank(b) && !(cur.Explicit && cur.Label != "") {
			return
		}
		cur.Body = b
		items = append(items, cur)
	}

	for _, t := range content {
		switch t.Kind {
		case KindItem:
			flush()
			body = nil
			cur = Item{Label: DefaultBullet}
			if t.HasLabel {
				cur = Item{Label: t.Label, Explicit: true}
			}
		case KindListStart:
			body = appendToken(body, literal(t))
		default:
			body = appendToken(body, t)
		}
	}
	flush()
	return items
}

// trimStream strips leading and trailing whitespace from the text at the
// edges of s, stopping at the first sentinel on each side.
func trimStream(s Stream) Stream {
	out := make(Stream, len(s))
	copy(out, s)

	for len(out) > 0 && out[0].Kind == KindText {
		out[0].Text = strings.TrimLeft(out[0].Text, " \t\r\n")
		out[0].Source = out[0].Text
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for n := len(out); n > 0 && out[n-1].Kind == KindText; n = len(out) {
		out[n-1].Text = strings.TrimRight(out[n-1].Text, " \t\r\n")
		out[n-1].Source = out[n-1].Text
		if out[n-1].Text != "" {
			break
		}
		out = out[:n-1]
	}
	return out
}

// isBlank reports whether s holds no visible text.
func isBlank(s Stream) bool {
	for _, t := range s {
		if t.Kind == KindText && strings.TrimSpace(t.Text) != "" {
			return false
		}
	}
	return true
}
