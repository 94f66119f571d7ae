// Package bot exposes a read-mostly view of the walk board over Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/models"
)

var errMissingBotToken = errors.New("telegram bot token is not configured")

// Board is what the bot needs from the live board.
type Board interface {
	Snapshot() board.State
	MatchIdentity(telegramID, username string) (models.Volunteer, bool)
	FinishWalk(groupID string) ([]string, error)
}

// Sender is the identity Telegram reports for a message.
type Sender struct {
	ID       int64
	Username string
}

type TelegramBot struct {
	board  Board
	token  string
	logger *logrus.Entry
}

func NewTelegramBot(b Board, token string) *TelegramBot {
	return &TelegramBot{board: b, token: token, logger: logrus.WithField("component", "telegram")}
}

// Start runs the update loop until ctx is done.
func (b *TelegramBot) Start(ctx context.Context) error {
	if b.token == "" {
		return errMissingBotToken
	}

	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return err
	}

	api.Debug = false
	b.logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			from := Sender{ID: update.Message.From.ID, Username: update.Message.From.UserName}
			reply := b.handleMessage(from, strings.TrimSpace(update.Message.Text))
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			if _, err := api.Send(msg); err != nil {
				b.logger.WithError(err).Warn("Failed to send reply")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *TelegramBot) handleMessage(from Sender, text string) string {
	if text == "" {
		return "Send a command. Use /help to see what I can do."
	}
	fields := strings.Fields(text)
	// commands may arrive as /walks@BotName in groups
	command, _, _ := strings.Cut(fields[0], "@")

	switch command {
	case "/start":
		return startMessage()
	case "/help":
		return helpMessage()
	case "/whoami":
		return b.handleWhoAmI(from)
	case "/walks":
		return b.handleWalks()
	case "/pool":
		return b.handlePool()
	case "/finish":
		return b.handleFinish(from, fields)
	default:
		return "Unknown command. Use /help."
	}
}

func (b *TelegramBot) identify(from Sender) (models.Volunteer, bool) {
	return b.board.MatchIdentity(strconv.FormatInt(from.ID, 10), from.Username)
}

func (b *TelegramBot) handleWhoAmI(from Sender) string {
	v, ok := b.identify(from)
	if !ok {
		return fmt.Sprintf("You are not on the volunteer list. Ask a coordinator to add Telegram id %d.", from.ID)
	}
	return fmt.Sprintf("You are %s (%s, %s).", v.Name, v.Role, v.Status)
}

func (b *TelegramBot) handleWalks() string {
	state := b.board.Snapshot()
	active := state.TeamGroups(state.Settings.CurrentTeamID, models.GroupActive)
	if len(active) == 0 {
		return "No walks in progress."
	}
	lines := []string{"Walks in progress:"}
	for _, g := range active {
		lines = append(lines, fmt.Sprintf("%s: %s, %s-%s, %s",
			g.ID, g.VolunteerName, g.StartTime, g.EndTime, dogNames(board.DogsInGroup(state, g.ID))))
	}
	return strings.Join(lines, "\n")
}

func (b *TelegramBot) handlePool() string {
	state := b.board.Snapshot()
	dogs := board.PoolDogs(state, state.Settings.CurrentTeamID, board.PoolAvailable, board.SortByName)
	var waiting []models.Dog
	for _, d := range dogs {
		if d.WalksToday == 0 {
			waiting = append(waiting, d)
		}
	}
	if len(waiting) == 0 {
		return "Every available dog has been out today."
	}
	return fmt.Sprintf("Still waiting for a walk (%d): %s", len(waiting), dogNames(waiting))
}

// handleFinish ends one of the sender's own active walks.
func (b *TelegramBot) handleFinish(from Sender, fields []string) string {
	v, ok := b.identify(from)
	if !ok {
		return "You are not on the volunteer list."
	}
	state := b.board.Snapshot()
	var mine []models.WalkGroup
	for _, g := range state.Groups {
		if g.Status == models.GroupActive && g.VolunteerID == v.ID {
			mine = append(mine, g)
		}
	}
	var target string
	switch {
	case len(fields) > 1:
		target = fields[1]
	case len(mine) == 1:
		target = mine[0].ID
	case len(mine) == 0:
		return "You have no walk in progress."
	default:
		return "You have several walks in progress. Use /finish <group id>."
	}

	owned := false
	for _, g := range mine {
		if g.ID == target {
			owned = true
		}
	}
	if !owned {
		return "That is not one of your walks in progress."
	}
	dogIDs, err := b.board.FinishWalk(target)
	if err != nil {
		return "Could not finish the walk: " + err.Error()
	}
	return fmt.Sprintf("Walk finished, %d dog(s) back in the shelter.", len(dogIDs))
}

func dogNames(dogs []models.Dog) string {
	names := make([]string, 0, len(dogs))
	for _, d := range dogs {
		names = append(names, d.Name)
	}
	if len(names) == 0 {
		return "no dogs"
	}
	return strings.Join(names, ", ")
}

func startMessage() string {
	return "Hi! I show what is happening on the walk board. Send /help for the commands."
}

func helpMessage() string {
	return strings.Join([]string{
		"Commands:",
		"/whoami - which volunteer you are",
		"/walks - walks in progress",
		"/pool - dogs still waiting for a walk",
		"/finish [group id] - finish your walk",
		"/help - this message",
	}, "\n")
}
