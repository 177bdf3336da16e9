package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/entity"
	"immobiliare-core/internal/domain/repository"
)

// ApologyReply is what the user sees whenever the agent fails.
const ApologyReply = "Si è verificato un errore tecnico. Riprova tra poco."

const (
	DefaultHistoryWindow = 6
	replyInstructions    = "(Reply naturally. If searching, select p.id as id. Append JSON if results found)."
	jsonFence            = "```json"
)

// ConversationRouter forwards chat messages to the agent with recent history.
type ConversationRouter struct {
	agent   repository.Agent
	history repository.ConversationStore
	window  int
}

func NewConversationRouter(agent repository.Agent, history repository.ConversationStore, window int) *ConversationRouter {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &ConversationRouter{agent: agent, history: history, window: window}
}

// Reply never fails: agent errors become ApologyReply and the failed turn is
// not recorded.
func (r *ConversationRouter) Reply(ctx context.Context, sessionID, message string) string {
	if sessionID == "" {
		sessionID = entity.DefaultSessionID
	}
	log.Info().Str("component", "AGENT").Str("session", sessionID).Str("message", message).Msg("agent received")

	recent, err := r.history.Recent(ctx, sessionID, r.window)
	if err != nil {
		log.Warn().Err(err).Str("component", "AGENT").Str("session", sessionID).Msg("history unavailable, continuing without it")
		recent = nil
	}

	reply, err := r.agent.Run(ctx, AugmentPrompt(recent, message))
	if err != nil {
		log.Error().Err(err).Str("component", "AGENT").Str("session", sessionID).Msg("agent run failed")
		return ApologyReply
	}

	err = r.history.Append(ctx, sessionID,
		entity.ConversationTurn{Role: entity.RoleUser, Content: message},
		entity.ConversationTurn{Role: entity.RoleAssistant, Content: reply},
	)
	if err != nil {
		log.Warn().Err(err).Str("component", "AGENT").Str("session", sessionID).Msg("could not record turn")
	}
	return reply
}

// AugmentPrompt prefixes the user message with the recent turns, each cut
// before its fenced property block.
func AugmentPrompt(recent []entity.ConversationTurn, message string) string {
	var sb strings.Builder
	if len(recent) > 0 {
		sb.WriteString("HISTORY:")
		for _, turn := range recent {
			sb.WriteString("\n- ")
			sb.WriteString(string(turn.Role))
			sb.WriteString(": ")
			sb.WriteString(stripPropertyBlock(turn.Content))
		}
	}
	sb.WriteString("\nUSER: ")
	sb.WriteString(message)
	sb.WriteString("\n")
	sb.WriteString(replyInstructions)
	return sb.String()
}

func stripPropertyBlock(content string) string {
	before, _, _ := strings.Cut(content, jsonFence)
	return strings.TrimSpace(before)
}
