package models

// Menu identifies which choice keyboard the transport should attach to a
// reply. The dialogue engine picks menus; rendering them is transport work.
type Menu int

const (
	MenuNone Menu = iota
	MenuMain
	MenuCancel
	MenuPrivacy
	MenuConfirm
	MenuChoices // per-reply option labels, see Reply.Choices
)

// Reply is one outbound message produced by the dialogue engine.
type Reply struct {
	Text    string
	Menu    Menu
	Choices []string // labels for MenuChoices, in display order
}
