package dataset

import (
	"fmt"

	"github.com/openai/openai-go/shared/constant"
)

// Chat roles accepted by validation. They match the OpenAI chat roles the
// datasets are fine-tuned against.
var (
	RoleUser      = string(constant.User("").Default())
	RoleAssistant = string(constant.Assistant("").Default())
)

// IsAllowedRole reports whether role is one of the accepted speaker tags.
func IsAllowedRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}

// ChatRecord is the documented shape of one JSONL line. It is used for schema
// export only; scanning works on decoded values so that shape violations can
// be classified instead of rejected wholesale.
type ChatRecord struct {
	Chat []ChatMessage `json:"chat" jsonschema:"required,minItems=1,description=Ordered conversation turns"`
}

// ChatMessage is one turn inside ChatRecord.Chat.
type ChatMessage struct {
	Role    string `json:"role" jsonschema:"required,enum=user,enum=assistant"`
	Content string `json:"content" jsonschema:"required,minLength=1"`
}

// Record is a line that passed the line-level checks: an object whose chat
// field is a non-empty array. Entries are left as decoded JSON values.
type Record struct {
	Chat []any
}

// Turns is the length of the chat array.
func (r Record) Turns() int { return len(r.Chat) }

// ContentState describes what was found under a message's content key.
type ContentState int

const (
	ContentMissing ContentState = iota
	ContentText
	ContentOther
)

// Message is the decomposition of one chat entry.
type Message struct {
	// Index is 1-based within the chat array.
	Index int

	// Object is false when the entry is not a JSON object; the remaining
	// fields are then zero.
	Object bool

	// Role is empty when the key is absent or not a string.
	Role string

	Content      string
	ContentState ContentState
}

// Messages decomposes the chat array in order.
func (r Record) Messages() []Message {
	out := make([]Message, 0, len(r.Chat))
	for i, entry := range r.Chat {
		m := Message{Index: i + 1}
		obj, ok := entry.(map[string]any)
		if !ok {
			out = append(out, m)
			continue
		}
		m.Object = true
		if role, ok := obj["role"].(string); ok {
			m.Role = role
		}
		if raw, ok := obj["content"]; ok {
			if s, isText := raw.(string); isText {
				m.Content = s
				m.ContentState = ContentText
			} else {
				m.ContentState = ContentOther
			}
		}
		out = append(out, m)
	}
	return out
}

// ErrorKind classifies a line- or message-level data problem.
type ErrorKind int

const (
	EmptyLine ErrorKind = iota + 1
	MalformedJSON
	InvalidChatShape
	InvalidMessageShape
	InvalidContentType
	InvalidRole
	EmptyContent
	ReadFailure
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyLine:
		return "empty_line"
	case MalformedJSON:
		return "malformed_json"
	case InvalidChatShape:
		return "invalid_chat_shape"
	case InvalidMessageShape:
		return "invalid_message_shape"
	case InvalidContentType:
		return "invalid_content_type"
	case InvalidRole:
		return "invalid_role"
	case EmptyContent:
		return "empty_content"
	case ReadFailure:
		return "read_failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LineError is a line-level classification failure. Cause is set for
// MalformedJSON and ReadFailure.
type LineError struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func (e *LineError) Error() string { return e.Detail }

func (e *LineError) Unwrap() error { return e.Cause }

// Finding is one validation diagnostic.
type Finding struct {
	Path string
	Line int
	// Index is the 1-based chat index, or 0 for a line-level finding.
	Index  int
	Kind   ErrorKind
	Detail string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.Path, f.Line, f.Detail)
}
