package prompt

import (
	"github.com/cloudwego/eino/schema"

	"github.com/linqiu/chronicle/backend/internal/model/chat"
)

// SystemInstruction is the fixed system turn prepended to every prompt.
const SystemInstruction = "You are a knowledgeable world history expert. Provide accurate, detailed, and engaging historical information."

// Window selects the stored history that accompanies the next request:
// the most recent 2*maxPairs turns. It is a pure view over the stored
// sequence; the stored history itself is never trimmed.
func Window(msgs []chat.Message, maxPairs int) []chat.Message {
	if maxPairs < 1 {
		maxPairs = 1
	}

	limit := 2 * maxPairs
	if len(msgs) <= limit {
		return msgs
	}
	return msgs[len(msgs)-limit:]
}

// Assemble builds the full ordered turn list sent to the backend: the
// system instruction, the windowed history, and the new user turn last.
// The result holds at most 2*maxPairs+2 turns.
func Assemble(history []chat.Message, userMessage string, maxPairs int) []*schema.Message {
	windowed := Window(history, maxPairs)

	turns := make([]*schema.Message, 0, len(windowed)+2)
	turns = append(turns, schema.SystemMessage(SystemInstruction))

	for _, msg := range windowed {
		switch msg.Role {
		case chat.RoleUser:
			turns = append(turns, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			turns = append(turns, schema.AssistantMessage(msg.Content, nil))
		}
	}

	turns = append(turns, schema.UserMessage(userMessage))
	return turns
}
