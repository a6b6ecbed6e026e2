package domain

// Option is one selectable answer on a quiz question. Value carries the
// semantic label that ends up in the profile (e.g. "savings_focused").
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Question is one multiple-choice quiz question. The generator contract
// guarantees exactly four options per question.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Options  []Option `json:"options"`
}

// Answer records one choice the user made. The full ordered answer list
// is sent to the question generator as context, so field order and list
// order are both part of the contract.
type Answer struct {
	QuestionID       string `json:"question_id"`
	QuestionText     string `json:"question_text"`
	QuestionCategory string `json:"question_category"`
	OptionID         string `json:"option_id"`
	OptionText       string `json:"option_text"`
	OptionValue      string `json:"option_value"`
}

// Profile maps answer categories to the chosen semantic value. Last
// write per category wins.
type Profile map[string]string

// UserContext is the static demographic context forwarded to the
// question generator. It is stripped before summarization.
type UserContext struct {
	Name   string `json:"name,omitempty"`
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}
