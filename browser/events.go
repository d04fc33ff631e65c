package browser

import "github.com/ysmood/gson"

type eventType string

const (
	eventInput   eventType = "input"
	eventKeyDown eventType = "keydown"
	eventBlur    eventType = "blur"
	eventResize  eventType = "resize"
)

// event is one report from the page-side listeners.
type event struct {
	Type  eventType
	Value string
	Key   string
	ID    int
}

func decodeEvent(j gson.JSON) (event, bool) {
	typ, ok := str(j, "type")
	if !ok {
		return event{}, false
	}
	ev := event{Type: eventType(typ)}
	switch ev.Type {
	case eventInput:
		if ev.Value, ok = str(j, "value"); !ok {
			return event{}, false
		}
	case eventKeyDown:
		if ev.Key, ok = str(j, "key"); !ok || ev.Key == "" {
			return event{}, false
		}
	case eventResize:
		id, ok := j.Gets("id")
		if !ok {
			return event{}, false
		}
		n, ok := id.Val().(float64)
		if !ok {
			return event{}, false
		}
		ev.ID = int(n)
	case eventBlur:
	default:
		return event{}, false
	}
	return ev, true
}

// str reads a string member. gson's Str formats missing and non-string
// values ("<nil>", "3"), which must not reach the controller as text.
func str(j gson.JSON, key string) (string, bool) {
	v, ok := j.Gets(key)
	if !ok {
		return "", false
	}
	s, ok := v.Val().(string)
	return s, ok
}
