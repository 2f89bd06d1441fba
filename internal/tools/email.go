package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/parvagarwal/hireagent/internal/google"
	"github.com/parvagarwal/hireagent/internal/llm"
)

// SendEmailName is the notification tool's advertised name.
const SendEmailName = "send_gmail"

// SendEmailTool sends one email per call.
type SendEmailTool struct {
	mail google.MailService
}

// NewSendEmailTool creates the notification tool.
func NewSendEmailTool(mail google.MailService) *SendEmailTool {
	return &SendEmailTool{mail: mail}
}

// Name implements Tool.
func (t *SendEmailTool) Name() string { return SendEmailName }

// Description implements Tool.
func (t *SendEmailTool) Description() string {
	return "Sends an email. Input is 'to' (email address), 'subject' and 'body'."
}

// Parameters implements Tool.
func (t *SendEmailTool) Parameters() llm.Schema {
	return llm.Schema{
		Type: "object",
		Properties: map[string]llm.Property{
			"to":      {Type: "string", Description: "Recipient email address."},
			"subject": {Type: "string", Description: "Email subject line."},
			"body":    {Type: "string", Description: "Plain-text email body."},
		},
		Required: []string{"to", "subject", "body"},
	}
}

type sendEmailArgs struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Call implements Tool.
func (t *SendEmailTool) Call(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args sendEmailArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.To == "" || !strings.Contains(args.To, "@") {
		return nil, fmt.Errorf("missing or invalid 'to' argument")
	}
	if args.Subject == "" {
		return nil, fmt.Errorf("missing 'subject' argument")
	}

	if err := t.mail.Send(ctx, args.To, args.Subject, args.Body); err != nil {
		return nil, err
	}
	return map[string]string{"result": fmt.Sprintf("email sent to %s", args.To)}, nil
}
