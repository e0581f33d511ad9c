package web

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	inviteDomain "clubhouse/internal/domain/invite"
)

// publicPageTmpl renders the public club page. The portal frontend is a
// separate SPA; this page is the one server-rendered surface because it has
// to work for visitors without an account.
var publicPageTmpl = template.Must(template.New("club").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Profile.ClubName}}</title>
<style>
body{font-family:Georgia,serif;max-width:720px;margin:2rem auto;padding:0 1rem;color:#1a2233}
header{border-bottom:3px double #1a3c6e;padding-bottom:1rem}
h1{color:#1a3c6e;margin-bottom:.25rem}
.meta{color:#5a6478}
.logo{max-height:96px}
ul.events{list-style:none;padding:0}
ul.events li{border-left:3px solid #1a3c6e;padding:.5rem 1rem;margin:.5rem 0;background:#f6f8fb}
form{margin-top:2rem;background:#f6f8fb;padding:1rem;border-radius:6px}
label{display:block;margin:.5rem 0 .25rem}
input,textarea{width:100%;padding:.4rem;border:1px solid #c4ccd8;border-radius:4px}
button{margin-top:.75rem;background:#1a3c6e;color:#fff;border:0;padding:.5rem 1.25rem;border-radius:4px;cursor:pointer}
.joined{color:#1f7a3d;font-weight:bold}
</style>
</head>
<body>
<header>
{{if .Profile.LogoURL}}<img class="logo" src="{{.Profile.LogoURL}}" alt="">{{end}}
<h1>{{.Profile.ClubName}}</h1>
<p class="meta">{{.Profile.City}}{{if .Profile.District}} &middot; Distretto {{.Profile.District}}{{end}}</p>
</header>
{{if .DescriptionHTML}}<section>{{.DescriptionHTML}}</section>{{end}}
{{if .UpcomingEvents}}
<section>
<h2>Prossimi eventi</h2>
<ul class="events">
{{range .UpcomingEvents}}<li><strong>{{.Title}}</strong><br>{{.StartsAt.Format "02/01/2006 15:04"}}{{if .Location}} &middot; {{.Location}}{{end}}</li>
{{end}}</ul>
</section>
{{end}}
{{if .JoinEnabled}}
<section>
{{if .Joined}}
<p class="joined">Grazie! La tua richiesta è stata registrata. Il club ti contatterà presto.</p>
{{else}}
<h2>Vuoi unirti al club?</h2>
<form method="post" action="/club/{{.Profile.Slug}}/join">
{{.CSRFField}}
<label>Nome<input name="name" required></label>
<label>Email<input name="email" type="email" required></label>
<label>Messaggio<textarea name="message" rows="3"></textarea></label>
<button type="submit">Invia richiesta</button>
</form>
{{end}}
</section>
{{end}}
</body>
</html>`))

// inviteLandingTmpl renders the invite acceptance page reached from the
// emailed link. It submits to the JSON accept endpoint from the page itself
// so the token never appears in a form field.
var inviteLandingTmpl = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Invito</title>
<style>
body{font-family:Georgia,serif;max-width:480px;margin:3rem auto;padding:0 1rem;color:#1a2233}
h1{color:#1a3c6e}
label{display:block;margin:.75rem 0 .25rem}
input{width:100%;padding:.4rem;border:1px solid #c4ccd8;border-radius:4px}
button{margin-top:1rem;background:#1a3c6e;color:#fff;border:0;padding:.5rem 1.25rem;border-radius:4px;cursor:pointer}
.error{color:#b3261e}
.ok{color:#1f7a3d}
</style>
</head>
<body>
{{if .Valid}}
<h1>Benvenuto</h1>
<p>Sei stato invitato a unirti al club. Completa la registrazione qui sotto.</p>
<form id="accept">
<label>Nome<input name="name" required></label>
<label>Password<input name="password" type="password" minlength="8" required></label>
<button type="submit">Attiva account</button>
</form>
<p id="msg"></p>
<script>
document.getElementById('accept').addEventListener('submit', async (e) => {
  e.preventDefault();
  const f = e.target;
  const res = await fetch('/api/invites/accept', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({token: {{.Token}}, name: f.name.value, password: f.password.value})
  });
  const msg = document.getElementById('msg');
  if (res.ok) {
    msg.className = 'ok';
    msg.textContent = 'Account creato. Ora puoi accedere al portale.';
    f.remove();
  } else {
    msg.className = 'error';
    msg.textContent = await res.text();
  }
});
</script>
{{else}}
<h1>Invito non valido</h1>
<p class="error">{{.Reason}}</p>
{{end}}
</body>
</html>`))

// publicFeatureEnabled reports whether a feature is on for anyone. Public
// pages have no session, so the per-role toggles collapse to "any role".
// Fails open on store errors like the API check does.
func publicFeatureEnabled(r *http.Request, key string) bool {
	f, err := stores.FeatureFlagStore.GetByKey(r.Context(), key)
	if err != nil {
		return true
	}
	return f.EnabledAdmin || f.EnabledMember
}

// handlePublicClubPage serves GET /club/{slug} and POST /club/{slug}/join.
// No authentication; shows only what the club chose to publish.
func handlePublicClubPage(w http.ResponseWriter, r *http.Request) {
	if !publicFeatureEnabled(r, "public_page") {
		http.NotFound(w, r)
		return
	}
	parts := pathSuffix(r, "/club/")
	if len(parts) == 0 {
		http.NotFound(w, r)
		return
	}
	slug := parts[0]
	ctx := r.Context()

	page, found := projections.QueryGetPublicPage(ctx, projections.GetPublicPageQuery{
		Slug: slug,
		Now:  timeNow(),
	}, projections.GetPublicPageDeps{
		ProfileStore: stores.ProfileStore,
		EventStore:   stores.EventStore,
	})
	if !found {
		http.NotFound(w, r)
		return
	}

	if r.Method == "POST" && len(parts) == 2 && parts[1] == "join" {
		handlePublicJoin(w, r, page)
		return
	}
	if r.Method != "GET" || len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	renderPublicPage(w, r, page, r.URL.Query().Get("joined") == "1")
}

func renderPublicPage(w http.ResponseWriter, r *http.Request, page projections.PublicPageResult, joined bool) {
	data := struct {
		projections.PublicPageResult
		JoinEnabled bool
		Joined      bool
		CSRFField   template.HTML
	}{
		PublicPageResult: page,
		JoinEnabled:      publicFeatureEnabled(r, "invites"),
		Joined:           joined,
		CSRFField:        csrf.TemplateField(r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := publicPageTmpl.Execute(w, data); err != nil {
		slog.Error("public_page_event", "event", "render_failed", "error", err)
	}
}

// handlePublicJoin records a membership request from the public form and
// notifies the club admin through the outbox.
func handlePublicJoin(w http.ResponseWriter, r *http.Request, page projections.PublicPageResult) {
	if !publicFeatureEnabled(r, "invites") {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	entry, err := orchestrators.ExecuteJoinWaitingList(ctx, orchestrators.JoinWaitingListInput{
		OwnerID: page.Profile.AccountID,
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}, orchestrators.JoinWaitingListDeps{
		WaitingStore: stores.WaitingStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if admin, aerr := stores.AccountStore.GetByID(ctx, page.Profile.AccountID); aerr == nil && admin.Email != "" {
		if _, eerr := orchestrators.ExecuteEnqueueEmail(ctx, orchestrators.EnqueueEmailInput{
			To:      []string{admin.Email},
			Subject: email.WaitingListSubject(entry.Name),
			HTML:    email.WaitingListHTML(entry.Name, entry.Email, entry.Message),
		}, orchestrators.EnqueueEmailDeps{
			OutboxStore: stores.OutboxStore,
			GenerateID:  generateID,
			Now:         timeNow,
		}); eerr != nil {
			slog.Warn("public_page_event", "event", "join_notify_skipped", "entry_id", entry.ID, "error", eerr)
		}
	}

	http.Redirect(w, r, "/club/"+page.Profile.Slug+"?joined=1", http.StatusSeeOther)
}

// handleInviteLanding serves GET /invite/{token}, the page behind the
// emailed invite link.
func handleInviteLanding(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	parts := pathSuffix(r, "/invite/")
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	token := parts[0]

	data := struct {
		Valid  bool
		Token  string
		Reason string
	}{Token: token}

	i, err := stores.InviteStore.GetByToken(r.Context(), token)
	switch {
	case err != nil:
		data.Reason = "Questo link di invito non esiste o è stato rimosso."
	case i.Status != inviteDomain.StatusPending:
		data.Reason = "Questo invito non è più attivo."
	case i.IsExpired(timeNow()):
		data.Reason = "Questo invito è scaduto. Chiedi al club di inviartene uno nuovo."
	default:
		data.Valid = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := inviteLandingTmpl.Execute(w, data); err != nil {
		slog.Error("public_page_event", "event", "render_failed", "error", err)
	}
}
