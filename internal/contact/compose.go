package contact

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// Academy is the sender name used in message footers.
	Academy = "NPY Skills Academy"

	// SMSMessageLimit caps the message portion of the SMS text, in characters.
	SMSMessageLimit = 100

	notProvided  = "Not provided"
	notSpecified = "Not specified"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/email.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS,
		"templates/email.txt.tmpl",
		"templates/whatsapp.txt.tmpl",
		"templates/telegram.html.tmpl",
	))
)

// Notification is one submission rendered for every channel.
type Notification struct {
	Subject string `json:"subject"`

	// ReplyTo is the submitter's address so the admin can answer directly.
	ReplyTo string `json:"reply_to"`

	HTML     string `json:"html"`
	Text     string `json:"text"`
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
	Telegram string `json:"telegram"`
}

type view struct {
	Academy      string
	Name         string
	Email        string
	Phone        string
	Organization string
	Program      string
	Message      string
	MessageLines []string
}

func newView(s Submission) view {
	return view{
		Academy:      Academy,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        orDefault(s.Phone, notProvided),
		Organization: orDefault(s.Organization, notProvided),
		Program:      orDefault(s.Program, notSpecified),
		Message:      s.Message,
		MessageLines: strings.Split(s.Message, "\n"),
	}
}

// escaped returns a copy with every value escaped for Telegram's HTML mode.
func (v view) escaped() view {
	esc := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace
	v.Name = esc(v.Name)
	v.Email = esc(v.Email)
	v.Phone = esc(v.Phone)
	v.Organization = esc(v.Organization)
	v.Program = esc(v.Program)
	v.Message = esc(v.Message)
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Subject returns the admin email subject for a submission.
func Subject(s Submission) string {
	return "New Contact Form Submission from " + s.Name
}

// SMSText returns the short SMS rendering. The message is cut to
// SMSMessageLimit characters and marked with "..." when it was longer.
func SMSText(s Submission) string {
	msg := s.Message
	if utf8.RuneCountInString(msg) > SMSMessageLimit {
		msg = string([]rune(msg)[:SMSMessageLimit]) + "..."
	}
	return fmt.Sprintf("New contact: %s (%s). Message: %s", s.Name, s.Email, msg)
}

// Compose renders s for every channel. It performs no I/O and the output
// depends only on s.
func Compose(s Submission) (Notification, error) {
	v := newView(s)

	var html, text, whatsapp, telegram bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "email.html.tmpl", v); err != nil {
		return Notification{}, errors.Wrap(err, "render html email")
	}
	if err := textTemplates.ExecuteTemplate(&text, "email.txt.tmpl", v); err != nil {
		return Notification{}, errors.Wrap(err, "render text email")
	}
	if err := textTemplates.ExecuteTemplate(&whatsapp, "whatsapp.txt.tmpl", v); err != nil {
		return Notification{}, errors.Wrap(err, "render whatsapp message")
	}
	if err := textTemplates.ExecuteTemplate(&telegram, "telegram.html.tmpl", v.escaped()); err != nil {
		return Notification{}, errors.Wrap(err, "render telegram message")
	}

	return Notification{
		Subject:  Subject(s),
		ReplyTo:  s.Email,
		HTML:     html.String(),
		Text:     text.String(),
		WhatsApp: strings.TrimRight(whatsapp.String(), "\n"),
		SMS:      SMSText(s),
		Telegram: strings.TrimRight(telegram.String(), "\n"),
	}, nil
}
