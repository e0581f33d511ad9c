package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"clubhouse/internal/adapters/ai"
	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/http/perf"
	accountStore "clubhouse/internal/adapters/storage/account"
	activityStore "clubhouse/internal/adapters/storage/activity"
	commissionStore "clubhouse/internal/adapters/storage/commission"
	documentStore "clubhouse/internal/adapters/storage/document"
	eventStore "clubhouse/internal/adapters/storage/event"
	featureFlagStore "clubhouse/internal/adapters/storage/featureflag"
	goalStore "clubhouse/internal/adapters/storage/goal"
	inviteStore "clubhouse/internal/adapters/storage/invite"
	meetingStore "clubhouse/internal/adapters/storage/meeting"
	memberStore "clubhouse/internal/adapters/storage/member"
	noteStore "clubhouse/internal/adapters/storage/note"
	outboxStore "clubhouse/internal/adapters/storage/outbox"
	permissionStore "clubhouse/internal/adapters/storage/permission"
	profileStore "clubhouse/internal/adapters/storage/profile"
	projectStore "clubhouse/internal/adapters/storage/project"
	requestStore "clubhouse/internal/adapters/storage/request"
	snapshotStore "clubhouse/internal/adapters/storage/snapshot"
	transactionStore "clubhouse/internal/adapters/storage/transaction"
	vipGuestStore "clubhouse/internal/adapters/storage/vipguest"
	"clubhouse/internal/application/authz"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore       accountStore.Store
	ProfileStore       profileStore.Store
	MemberStore        memberStore.Store
	PermissionStore    permissionStore.Store
	RequestStore       requestStore.Store
	EventStore         eventStore.Store
	DistrictEventStore eventStore.DistrictStore
	CommissionStore    commissionStore.Store
	ProjectStore       projectStore.Store
	TransactionStore   transactionStore.Store
	GoalStore          goalStore.Store
	NoteStore          noteStore.Store
	VIPGuestStore      vipGuestStore.Store
	MeetingStore       meetingStore.Store
	InviteStore        inviteStore.Store
	WaitingStore       inviteStore.WaitingStore
	ActivityStore      activityStore.Store
	SnapshotStore      snapshotStore.Store
	DocumentStore      documentStore.Store
	FeatureFlagStore   featureFlagStore.Store
	OutboxStore        outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from CLUBHOUSE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CLUBHOUSE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CLUBHOUSE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CLUBHOUSE_ENV") == "production" {
		log.Fatal("CLUBHOUSE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set CLUBHOUSE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global permission resolver (set by NewMux)
var resolver *authz.Resolver

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// Global AI generator (set by SetDocumentGenerator)
var docGenerator ai.Generator = ai.NoopGenerator{}

// SetDocumentGenerator sets the AI provider used for document and flyer
// generation. Defaults to a noop generator producing placeholders.
func SetDocumentGenerator(g ai.Generator) {
	docGenerator = g
}

// appBaseURL is used to build absolute links in outgoing email.
var appBaseURL = "http://localhost:8080"

// SetBaseURL sets the public base URL of the deployment.
func SetBaseURL(u string) {
	if u != "" {
		appBaseURL = u
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	resolver = &authz.Resolver{
		Accounts:    s.AccountStore,
		Members:     s.MemberStore,
		Permissions: s.PermissionStore,
	}
	middleware.SecureCookies = os.Getenv("CLUBHOUSE_ENV") == "production"
	middleware.TrustProxy = os.Getenv("CLUBHOUSE_TRUST_PROXY") == "1"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()
	var csrfOrigins []string
	if u, err := url.Parse(appBaseURL); err == nil && u.Host != "" {
		csrfOrigins = append(csrfOrigins, u.Host)
	}

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, csrfOrigins...),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
