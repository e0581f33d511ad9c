package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	aiPkg "clubhouse/internal/adapters/ai"
	emailPkg "clubhouse/internal/adapters/email"
	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/storage"
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
	"clubhouse/internal/application/orchestrators"
	outboxDomain "clubhouse/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is fine; all settings have defaults except secrets.
	_ = godotenv.Load()

	dbPath := envOrDefault("CLUBHOUSE_DB", "clubhouse.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:       acctStore,
		ProfileStore:       profileStore.NewSQLiteStore(timedDB),
		MemberStore:        memberStore.NewSQLiteStore(timedDB),
		PermissionStore:    permissionStore.NewSQLiteStore(timedDB),
		RequestStore:       requestStore.NewSQLiteStore(timedDB),
		EventStore:         eventStore.NewSQLiteStore(timedDB),
		DistrictEventStore: eventStore.NewDistrictSQLiteStore(timedDB),
		CommissionStore:    commissionStore.NewSQLiteStore(timedDB),
		ProjectStore:       projectStore.NewSQLiteStore(timedDB),
		TransactionStore:   transactionStore.NewSQLiteStore(timedDB),
		GoalStore:          goalStore.NewSQLiteStore(timedDB),
		NoteStore:          noteStore.NewSQLiteStore(timedDB),
		VIPGuestStore:      vipGuestStore.NewSQLiteStore(timedDB),
		MeetingStore:       meetingStore.NewSQLiteStore(timedDB),
		InviteStore:        inviteStore.NewSQLiteStore(timedDB),
		WaitingStore:       inviteStore.NewSQLiteWaitingStore(timedDB),
		ActivityStore:      activityStore.NewSQLiteStore(timedDB),
		SnapshotStore:      snapshotStore.NewSQLiteStore(timedDB),
		DocumentStore:      documentStore.NewSQLiteStore(timedDB),
		FeatureFlagStore:   featureFlagStore.NewSQLiteStore(timedDB),
		OutboxStore:        outboxStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("CLUBHOUSE_ADMIN_EMAIL", "admin@clubhouse.local")
	adminPassword := envOrDefault("CLUBHOUSE_ADMIN_PASSWORD", "cambiami subito 1905")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed feature flags that routes check, without overwriting edits
	if err := orchestrators.ExecuteSeedFeatureFlags(context.Background(), stores.FeatureFlagStore); err != nil {
		log.Fatalf("failed to seed feature flags: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("CLUBHOUSE_RESEND_KEY")
	emailFrom := envOrDefault("CLUBHOUSE_EMAIL_FROM", "Clubhouse <noreply@clubhouse.local>")
	emailReply := envOrDefault("CLUBHOUSE_REPLY_TO", adminEmail)
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("CLUBHOUSE_ENV") == "production" {
			log.Println("WARNING: CLUBHOUSE_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set CLUBHOUSE_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, emailFrom, emailReply)

	// Configure the AI provider for documents, flyers and transcription
	if aiKey := os.Getenv("CLUBHOUSE_AI_KEY"); aiKey != "" {
		web.SetDocumentGenerator(aiPkg.NewClient(
			envOrDefault("CLUBHOUSE_AI_BASE_URL", "https://api.openai.com/v1"),
			aiKey,
			envOrDefault("CLUBHOUSE_AI_TEXT_MODEL", "gpt-4o-mini"),
			envOrDefault("CLUBHOUSE_AI_IMAGE_MODEL", "dall-e-3"),
			envOrDefault("CLUBHOUSE_AI_AUDIO_MODEL", "whisper-1"),
		))
		log.Println("AI provider configured")
	} else {
		log.Println("AI provider not configured (noop, set CLUBHOUSE_AI_KEY to enable)")
	}

	web.SetBaseURL(envOrDefault("CLUBHOUSE_BASE_URL", "http://localhost:8080"))

	// Background outbox worker retries queued emails until they succeed
	// or exhaust their attempts.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender},
	})
	go processor.RunWorker(workerCtx, 1*time.Minute)

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("CLUBHOUSE_ADDR", ":8080")
	log.Printf("Clubhouse %s starting on %s (env=%s)", version, addr, envOrDefault("CLUBHOUSE_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
