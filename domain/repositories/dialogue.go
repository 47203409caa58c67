package repositories

import (
	"context"

	"github.com/csmith/lingotutor/domain/entities"
)

// DialogueEngine abstracts the conversational model. Implementations are
// stateless; rolling history is owned by the caller's session and passed in
// per request, so concurrent users can never share context.
type DialogueEngine interface {
	// Reply generates an English reply to userText, optionally conditioned
	// on prior exchanges. History may be empty for stateless turns.
	Reply(ctx context.Context, history []entities.Exchange, userText string) (string, error)
}
