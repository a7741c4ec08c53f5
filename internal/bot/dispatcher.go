package bot

import (
	"context"
	"errors"
	"fmt"

	"partyfox/internal/service"
)

// Dispatcher routes inbound bot commands to outbound actions. It holds no
// state of its own; every decision is derived from the single update.
type Dispatcher struct {
	parties *service.PartyService
	sender  MessageSender
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(parties *service.PartyService, sender MessageSender) *Dispatcher {
	return &Dispatcher{parties: parties, sender: sender}
}

// HandleUpdate processes one webhook update. Non-message updates and
// unrecognized text produce no response at all; every recognized command
// gets exactly one outbound message, even when the token resolves to
// nothing.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update Update) error {
	message := update.Message
	if message == nil || message.Chat == nil || message.From == nil {
		return nil
	}

	command := ParseCommand(message.Text)
	switch command.Kind {
	case CommandCreate:
		return d.handleCreate(ctx, message.Chat.ID, message.From.ID)
	case CommandOpen:
		return d.handleOpen(ctx, message.Chat.ID, message.From.ID, command.Token)
	default:
		return nil
	}
}

func (d *Dispatcher) handleCreate(ctx context.Context, chatID, senderID int64) error {
	link := d.parties.CreateLink(senderID)
	text := "Давай устроим праздник! Нажми кнопку, чтобы создать приглашения от Лиса Рокки."
	if err := d.sender.SendMessageWithLink(ctx, chatID, text, "Создать приглашения 🎉", link); err != nil {
		return fmt.Errorf("failed to send create prompt: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleOpen(ctx context.Context, chatID, senderID int64, token string) error {
	view, err := d.parties.GetParty(token)
	if errors.Is(err, service.ErrPartyNotFound) {
		// The sender still deserves an answer; a dead link must not look
		// like a dead bot
		if err := d.sender.SendMessage(ctx, chatID, "Хм, я не нашёл такого праздника. Проверь ссылку!"); err != nil {
			return fmt.Errorf("failed to send not-found notice: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve party: %w", err)
	}

	link := fmt.Sprintf("%s&claimant=%d", d.parties.ShareLink(token), senderID)
	text := fmt.Sprintf("%s приглашает тебя на День Рождения! Открой приглашение и найди своё имя.", view.BirthdayKid)
	if err := d.sender.SendMessageWithLink(ctx, chatID, text, "Открыть приглашение 🦊", link); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	return nil
}
