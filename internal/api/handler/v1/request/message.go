package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type InboundMessageRequest struct {
	SourceMessageID string `json:"source_message_id"`
	Person          string `json:"person"`
	Network         string `json:"network"`
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
}

func (req *InboundMessageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SourceMessageID, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.Network, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Text, validation.Required),
	)
}
