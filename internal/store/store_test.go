package store

import (
	"encoding/base64"
	"log/slog"
	"testing"

	"github.com/wrenfield/perch/internal/model"
	"github.com/wrenfield/perch/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

// setupStore opens an in-memory database and loads a store over it. The
// returned KV can be used to build a second store over the same data.
func setupStore(t *testing.T) (*Store, *storage.KV) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	kv := storage.NewKV(db)
	s := New(kv, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s, kv
}

// reload builds a fresh store over the same storage, simulating a restart.
func reload(t *testing.T, kv *storage.KV) *Store {
	t.Helper()
	s := New(kv, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("reload store: %v", err)
	}
	return s
}

func TestLoadBootstrapsDefaultCalendar(t *testing.T) {
	s, kv := setupStore(t)

	cals := s.Calendars()
	if len(cals) != 1 {
		t.Fatalf("got %d calendars, want 1 default", len(cals))
	}
	if cals[0].Name != "My Calendar" {
		t.Errorf("default name = %q", cals[0].Name)
	}
	if cals[0].ID == "" {
		t.Error("default calendar has no id")
	}
	if s.SelectedCalendarID() != cals[0].ID {
		t.Error("default calendar should be selected")
	}

	// Bootstrap persisted immediately: a second load sees the same calendar.
	s2 := reload(t, kv)
	cals2 := s2.Calendars()
	if len(cals2) != 1 || cals2[0].ID != cals[0].ID {
		t.Error("bootstrap was not persisted; reload produced a different calendar")
	}
}

func TestLoadRecoversFromCorruptJSON(t *testing.T) {
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	kv := storage.NewKV(db)

	if err := kv.Set("calendars", "{not json"); err != nil {
		t.Fatalf("seed corrupt value: %v", err)
	}

	s := New(kv, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load should recover from corrupt JSON, got: %v", err)
	}
	if len(s.Calendars()) != 1 {
		t.Fatalf("got %d calendars, want 1 default after recovery", len(s.Calendars()))
	}
}

func TestLoadFallsBackOnDanglingSelection(t *testing.T) {
	s, kv := setupStore(t)
	if err := kv.Set("selected_calendar", "no-such-id"); err != nil {
		t.Fatalf("seed selection: %v", err)
	}

	s2 := reload(t, kv)
	if got, want := s2.SelectedCalendarID(), s.Calendars()[0].ID; got != want {
		t.Errorf("selection = %q, want fallback to first calendar %q", got, want)
	}
}

func TestPersistRoundTripWithAttachment(t *testing.T) {
	s, kv := setupStore(t)

	tpl, err := s.AddTemplate("Workout", "gym session", "#FF8800", 60, []string{"https://example.com/plan"})
	if err != nil {
		t.Fatalf("add template: %v", err)
	}

	payload := base64.StdEncoding.EncodeToString([]byte("file contents"))
	_, err = s.AddAttachment(tpl.ID, model.Attachment{
		FileName: "plan.pdf",
		FileType: "application/pdf",
		Data:     payload,
		TempPath: "/tmp/upload-123",
	})
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	s2 := reload(t, kv)
	got := s2.TemplateByID(tpl.ID)
	if got == nil {
		t.Fatal("template missing after reload")
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(got.Attachments))
	}
	a := got.Attachments[0]
	if a.FileName != "plan.pdf" || a.FileType != "application/pdf" || a.Data != payload {
		t.Errorf("attachment fields did not survive the round trip: %+v", a)
	}
	if a.TempPath != "" {
		t.Errorf("transient staging path persisted: %q", a.TempPath)
	}
}

func TestViewModePersists(t *testing.T) {
	s, kv := setupStore(t)

	if got := s.ViewMode(); got != model.ViewWeek {
		t.Errorf("initial view mode = %q, want week", got)
	}
	if err := s.SetViewMode(model.ViewMonth); err != nil {
		t.Fatalf("set view mode: %v", err)
	}
	if err := s.SetViewMode("agenda"); err == nil {
		t.Error("expected error for unknown view mode")
	}

	s2 := reload(t, kv)
	if got := s2.ViewMode(); got != model.ViewMonth {
		t.Errorf("view mode after reload = %q, want month", got)
	}
}

func TestPrefsPersist(t *testing.T) {
	s, kv := setupStore(t)

	p := model.Prefs{WidgetHeight: 320, Collapsed: true, PosX: 40, PosY: 80}
	if err := s.SetPrefs(p); err != nil {
		t.Fatalf("set prefs: %v", err)
	}

	s2 := reload(t, kv)
	if got := s2.Prefs(); got != p {
		t.Errorf("prefs after reload = %+v, want %+v", got, p)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s, _ := setupStore(t)

	tpl, _ := s.AddTemplate("Standup", "", "#00AAFF", 15, nil)
	if _, err := s.AddEvent(tpl.ID, 2, "09:00"); err != nil {
		t.Fatalf("add event: %v", err)
	}
	s.SetViewMode(model.ViewMonth)

	snap := s.Snapshot()

	// Wreck the live state, then restore.
	s.DeleteTemplate(tpl.ID)
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if s.TemplateByID(tpl.ID) == nil {
		t.Error("template missing after restore")
	}
	cal := s.SelectedCalendar()
	if cal == nil || len(cal.Events) != 1 {
		t.Fatal("event missing after restore")
	}
	if s.ViewMode() != model.ViewMonth {
		t.Error("view mode not restored")
	}
}

func TestSnapshotIsDecoupled(t *testing.T) {
	s, _ := setupStore(t)

	tpl, _ := s.AddTemplate("Run", "", "#22CC88", 30, nil)
	snap := s.Snapshot()

	// Mutating the snapshot must not leak into live state.
	snap.Calendars[0].Templates[0].Name = "changed"
	if got := s.TemplateByID(tpl.ID); got.Name != "Run" {
		t.Errorf("live template name = %q, snapshot mutation leaked", got.Name)
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	s, _ := setupStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tpl, err := s.AddTemplate("t", "", "#000000", 30, nil)
		if err != nil {
			t.Fatalf("add template: %v", err)
		}
		if seen[tpl.ID] {
			t.Fatalf("duplicate id %q", tpl.ID)
		}
		seen[tpl.ID] = true
	}
}
