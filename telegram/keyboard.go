// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/danielhkuo/pollbooth/bot"
	"github.com/danielhkuo/pollbooth/models"
)

var mainKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdCreatePoll)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdVote)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdManage)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdAddParticipants)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdStats)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdShowUsers)),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdHelp)),
)

var cancelKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdCancel)),
)

var privacyKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(bot.LabelPublic),
		tgbotapi.NewKeyboardButton(bot.LabelPrivate),
	),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdCancel)),
)

var confirmKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(bot.LabelDelete),
		tgbotapi.NewKeyboardButton(bot.LabelEnd),
	),
	tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdCancel)),
)

// keyboardFor maps a reply's menu to its reply keyboard. MenuNone replies
// keep whatever keyboard is already on screen.
func keyboardFor(r models.Reply) (tgbotapi.ReplyKeyboardMarkup, bool) {
	switch r.Menu {
	case models.MenuMain:
		return mainKeyboard, true
	case models.MenuCancel:
		return cancelKeyboard, true
	case models.MenuPrivacy:
		return privacyKeyboard, true
	case models.MenuConfirm:
		return confirmKeyboard, true
	case models.MenuChoices:
		return choicesKeyboard(r.Choices), true
	}
	return tgbotapi.ReplyKeyboardMarkup{}, false
}

// choicesKeyboard renders one button per option plus Cancel, mirroring the
// option order the poll was created with.
func choicesKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(labels)+1)
	for _, label := range labels {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(bot.CmdCancel)))
	return tgbotapi.NewReplyKeyboard(rows...)
}
