package email

import (
	"fmt"
	"html"
	"time"
)

// Templates for the transactional mail the portal sends: invites, welcome
// messages, and notifications to the club admin.

// InviteSubject is the subject line of a club invitation.
func InviteSubject(clubName string) string {
	return fmt.Sprintf("Invito a %s", clubName)
}

// InviteHTML renders the invitation email body.
// PRE: link is an absolute URL
func InviteHTML(clubName, link string, expiresAt time.Time) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px">
<h2>Sei stato invitato a %s</h2>
<p>Un amministratore del club ti ha invitato a unirti al portale.
Segui il collegamento per creare il tuo account:</p>
<p><a href="%s">%s</a></p>
<p>Il collegamento scade il %s.</p>
<p style="color:#666">Se non aspettavi questo invito puoi ignorare questa email.</p>
</div>`,
		html.EscapeString(clubName),
		link, link,
		expiresAt.Format("02/01/2006"))
}

// ConfirmationSubject is the subject line of the welcome email sent after an
// invite is accepted.
func ConfirmationSubject(clubName string) string {
	return fmt.Sprintf("Benvenuto in %s", clubName)
}

// ConfirmationHTML renders the welcome email body.
func ConfirmationHTML(clubName, name string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px">
<h2>Benvenuto in %s</h2>
<p>Ciao %s, il tuo account è attivo. Puoi accedere al portale del club con
la tua email e la password che hai scelto.</p>
</div>`,
		html.EscapeString(clubName),
		html.EscapeString(name))
}

// RequestNotificationSubject is the subject line of a section-request
// notification to the responsible.
func RequestNotificationSubject(sectionLabel string) string {
	return fmt.Sprintf("Nuova richiesta nella sezione %s", sectionLabel)
}

// RequestNotificationHTML renders the section-request notification body.
func RequestNotificationHTML(sectionLabel, authorName, content string) string {
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px">
<h2>Nuova richiesta: %s</h2>
<p><strong>%s</strong> ha scritto sulla bacheca della sezione:</p>
<blockquote>%s</blockquote>
<p>Rispondi dalla bacheca della sezione nel portale.</p>
</div>`,
		html.EscapeString(sectionLabel),
		html.EscapeString(authorName),
		html.EscapeString(content))
}

// WaitingListSubject is the subject line of a waiting-list notification to
// the club admin.
func WaitingListSubject(name string) string {
	return fmt.Sprintf("Nuova richiesta di adesione da %s", name)
}

// WaitingListHTML renders the waiting-list notification body.
func WaitingListHTML(name, email, message string) string {
	msg := ""
	if message != "" {
		msg = fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(message))
	}
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:560px">
<h2>Nuova richiesta di adesione</h2>
<p><strong>%s</strong> (%s) ha chiesto di unirsi al club dalla pagina pubblica.</p>
%s
<p>Puoi convertire la richiesta in un invito dalla sezione inviti del portale.</p>
</div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		msg)
}
