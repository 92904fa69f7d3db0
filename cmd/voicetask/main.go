package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/nhle/voicetask/internal/calendar"
	"github.com/nhle/voicetask/internal/capture"
	"github.com/nhle/voicetask/internal/credential"
	"github.com/nhle/voicetask/internal/extract"
	"github.com/nhle/voicetask/internal/logging"
	"github.com/nhle/voicetask/internal/model"
	"github.com/nhle/voicetask/internal/mute"
	"github.com/nhle/voicetask/internal/notify"
	"github.com/nhle/voicetask/internal/remind"
	"github.com/nhle/voicetask/internal/store"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "capture":
		runCapture(os.Args[2:])
	case "worker":
		runWorker(os.Args[2:])
	case "sync":
		runSync(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	case "complete":
		runComplete(os.Args[2:], true)
	case "reopen":
		runComplete(os.Args[2:], false)
	case "delete":
		runDelete(os.Args[2:])
	case "ack":
		runAction(os.Args[2:], notify.ActionAcknowledge)
	case "mute":
		runAction(os.Args[2:], notify.ActionMute)
	case "history":
		runHistory(os.Args[2:])
	case "credential":
		runCredential(os.Args[2:])
	case "version":
		fmt.Printf("voicetask %s\n", version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: voicetask <command> [args]

commands:
  capture <transcript>   extract a task from a transcript and store it
  worker                 run the reminder delivery worker
  sync                   reconcile scheduled reminders with stored records
  list                   list stored records
  complete <id>          mark a record completed (cancels its reminder)
  reopen <id>            reopen a completed record
  delete <id>            delete a record and cancel its reminder
  ack <id>               acknowledge a delivered reminder
  mute <id>              mute a task's reminders permanently
  history [...]          show or manage notification history
  credential set-api-key store the extraction API key in the keyring
  version                print the version`)
}

// app holds the wired pipeline components.
type app struct {
	cfg     *model.AppConfig
	log     *logging.Logger
	store   *store.SQLiteStore
	rdb     *redis.Client
	mute    mute.Store
	sched   *remind.Scheduler
	service *capture.Service
	actions *remind.ActionHandler
}

// newApp builds the full component graph from configuration.
func newApp() (*app, error) {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	muteStore := mute.NewRedisStore(rdb)
	notifier := notify.NewDesktop(cfg.Notifications.Enabled)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	sched := remind.NewScheduler(redisOpt, muteStore, notifier, log, remind.SchedulerOptions{
		Queue: cfg.Reminders.Queue,
		Lead:  time.Duration(cfg.Reminders.LeadMinutes) * time.Minute,
	})

	var cal calendar.Creator = calendar.Disabled{}
	if cfg.Calendar.BaseURL != "" {
		cal = calendar.NewClient(cfg.Calendar.BaseURL, cfg.Calendar.Token)
	}

	extractor := extract.New(apiKey(), cfg.AI.Model, cfg.AI.MaxTokens)
	service := capture.New(st, extractor, cal, sched, log)
	actions := remind.NewActionHandler(st, muteStore, sched, notifier, log)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		rdb:     rdb,
		mute:    muteStore,
		sched:   sched,
		service: service,
		actions: actions,
	}, nil
}

func (a *app) close() {
	a.sched.Close()
	a.rdb.Close()
	a.store.Close()
}

// apiKey reads the extraction key from the keyring, falling back to the
// environment for headless setups.
func apiKey() string {
	if key, err := credential.Get(credential.APIKeyName); err == nil && key != "" {
		return key
	}
	return os.Getenv("VOICETASK_API_KEY")
}

func mustApp() *app {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
	return a
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: invalid id %q\n", arg)
		os.Exit(1)
	}
	return id
}

func runCapture(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: voicetask capture <transcript>")
		os.Exit(1)
	}
	transcript := strings.Join(args, " ")

	a := mustApp()
	defer a.close()

	rec, err := a.service.Capture(context.Background(), transcript)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}

	if rec.IsEvent() {
		fmt.Printf("captured event #%d due %s\n", rec.ID, rec.FullTime)
	} else {
		fmt.Printf("captured note #%d\n", rec.ID)
	}
}

func runWorker(args []string) {
	a := mustApp()
	defer a.close()

	// Reconcile on startup so reminders survive reboots and missed runs.
	if err := a.service.SyncReminders(context.Background()); err != nil {
		a.log.Warn("startup reminder sync failed", "error", err)
	}

	notifier := notify.NewDesktop(a.cfg.Notifications.Enabled)
	worker := remind.NewWorker(a.store, a.mute, notifier, a.log)

	redisOpt := asynq.RedisClientOpt{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{a.cfg.Reminders.Queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(remind.TypeDeliver, worker.HandleDeliver)

	a.log.Info("reminder worker starting", "queue", a.cfg.Reminders.Queue)
	if err := srv.Run(mux); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: worker: %v\n", err)
		os.Exit(1)
	}
}

func runSync(args []string) {
	a := mustApp()
	defer a.close()

	if err := a.service.SyncReminders(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("reminders synced")
}

func runList(args []string) {
	a := mustApp()
	defer a.close()

	records, err := a.store.GetRecords(context.Background(), store.RecordFilter{SortDesc: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}

	for _, rec := range records {
		status := " "
		if rec.Completed {
			status = "x"
		}
		fmt.Printf("[%s] #%-4d %-5s %-22s %s\n",
			status, rec.ID, rec.Duration, rec.FullTime, rec.Transcript)
	}
}

func runComplete(args []string, completed bool) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: voicetask complete|reopen <id>")
		os.Exit(1)
	}
	a := mustApp()
	defer a.close()

	if err := a.service.SetCompleted(context.Background(), parseID(args[0]), completed); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
}

func runDelete(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: voicetask delete <id>")
		os.Exit(1)
	}
	a := mustApp()
	defer a.close()

	if err := a.service.Delete(context.Background(), parseID(args[0])); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
}

func runAction(args []string, action notify.Action) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: voicetask %s <id>\n", action)
		os.Exit(1)
	}
	a := mustApp()
	defer a.close()

	if err := a.actions.Handle(context.Background(), action, parseID(args[0])); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
}

func runHistory(args []string) {
	a := mustApp()
	defer a.close()
	ctx := context.Background()

	if len(args) > 0 {
		switch args[0] {
		case "read":
			if len(args) != 2 {
				fmt.Fprintln(os.Stderr, "usage: voicetask history read <entry-id>")
				os.Exit(1)
			}
			if err := a.store.MarkNotificationRead(ctx, args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
				os.Exit(1)
			}
			return
		case "read-all":
			if err := a.store.MarkAllNotificationsRead(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
				os.Exit(1)
			}
			return
		case "clear":
			if err := a.store.DeleteAllNotifications(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintln(os.Stderr, "usage: voicetask history [read <entry-id>|read-all|clear]")
			os.Exit(1)
		}
	}

	entries, err := a.store.GetNotifications(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
	unread, err := a.store.CountUnreadNotifications(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d entries, %d unread\n", len(entries), unread)
	for _, e := range entries {
		marker := "*"
		if e.Read {
			marker = " "
		}
		fmt.Printf("%s %s task=%d %s: %s\n",
			marker, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.TaskID, e.Title, e.Body)
	}
}

func runCredential(args []string) {
	if len(args) != 1 || args[0] != "set-api-key" {
		fmt.Fprintln(os.Stderr, "usage: voicetask credential set-api-key")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "API key: ")
	var key string
	if _, err := fmt.Scanln(&key); err != nil || key == "" {
		fmt.Fprintln(os.Stderr, "voicetask: no key entered")
		os.Exit(1)
	}
	if err := credential.Set(credential.APIKeyName, key); err != nil {
		fmt.Fprintf(os.Stderr, "voicetask: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("API key stored")
}
