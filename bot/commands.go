// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bot

// Button labels double as commands: Telegram reply keyboards send the label
// back as plain text.
const (
	CmdStart           = "/start"
	CmdCreatePoll      = "Create Poll"
	CmdVote            = "Vote"
	CmdManage          = "Manage Polls"
	CmdAddParticipants = "Add Participants"
	CmdStats           = "Statistics"
	CmdShowUsers       = "Show Users"
	CmdHelp            = "Help"
	CmdCancel          = "Cancel"

	LabelPublic  = "Public"
	LabelPrivate = "Private"
	LabelDelete  = "Delete"
	LabelEnd     = "End"
)

const helpText = `Pollbooth runs timed polls with per-poll statistics.

Available commands:
Create Poll - start a new public or private poll
Vote - vote in a poll you can see
Manage Polls - end or delete your polls
Add Participants - grant users access to a private poll
Statistics - vote counts and percentages per poll
Show Users - list known users and their ids
Help - this text

Cancel aborts any flow at any step.`

const unrecognizedText = `Unrecognized command. Available commands:
Create Poll
Vote
Manage Polls
Add Participants
Statistics
Show Users
Help`
