package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Email kinds.
const (
	KindCommentNew      = "comment_new"
	KindCommentApproved = "comment_approved"
	KindCommentReply    = "comment_reply"
	KindContactNew      = "contact_new"
	KindMeetingNew      = "meeting_new"
)

// Each kind defines a "<kind>.subject" and a "<kind>.body" template.
const templateText = `
{{define "comment_new.subject"}}[{{.SiteName}}] Nouveau commentaire sur « {{.PostTitle}} »{{end}}
{{define "comment_new.body"}}{{.AuthorName}} a laissé un commentaire en attente de modération :

{{.Content}}

Modérer : {{.AdminURL}}
{{end}}

{{define "comment_approved.subject"}}[{{.SiteName}}] Votre commentaire est en ligne{{end}}
{{define "comment_approved.body"}}Bonjour {{.AuthorName}},

Votre commentaire sur « {{.PostTitle}} » a été approuvé :

{{.Content}}

Voir l'article : {{.PostURL}}
{{end}}

{{define "comment_reply.subject"}}[{{.SiteName}}] Nouvelle réponse à votre commentaire{{end}}
{{define "comment_reply.body"}}Bonjour {{.RecipientName}},

{{.AuthorName}} a répondu à votre commentaire sur « {{.PostTitle}} » :

{{.Content}}

Voir la discussion : {{.PostURL}}
{{end}}

{{define "contact_new.subject"}}[{{.SiteName}}] Nouveau message de {{.Name}}{{if .Subject}} : {{.Subject}}{{end}}{{end}}
{{define "contact_new.body"}}De : {{.Name}} <{{.Email}}>{{if .Phone}}
Téléphone : {{.Phone}}{{end}}{{if .Company}}
Société : {{.Company}}{{end}}

{{.Message}}
{{end}}

{{define "meeting_new.subject"}}[{{.SiteName}}] Demande de rendez-vous : {{.Topic}}{{end}}
{{define "meeting_new.body"}}{{.Name}} <{{.Email}}> souhaite un rendez-vous.

Sujet : {{.Topic}}
Date souhaitée : {{.PreferredAt.Format "02/01/2006 15:04"}} ({{.DurationMinutes}} min){{if .Phone}}
Téléphone : {{.Phone}}{{end}}{{if .Message}}

{{.Message}}{{end}}
{{end}}
`

var emails = template.Must(template.New("emails").Parse(templateText))

// Compose renders the email of the given kind for one recipient.
func Compose(kind, to string, data interface{}) (Message, error) {
	subject, err := execute(kind+".subject", data)
	if err != nil {
		return Message{}, err
	}
	body, err := execute(kind+".body", data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: strings.TrimSpace(subject), Text: strings.TrimSpace(body) + "\n"}, nil
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := emails.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email %s: %w", name, err)
	}
	return buf.String(), nil
}
