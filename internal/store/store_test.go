package store

import (
	"context"
	"path/filepath"
	"testing"

	"stenograf/internal/speaker"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "harvest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.StartRun(ctx, "run-1", 2017); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := s.CompleteRun(ctx, "run-1", 3, 120, 45); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.Year != 2017 || run.Sessions != 3 || run.Files != 120 || run.Requests != 45 {
		t.Errorf("run = %+v", run)
	}
	if run.CompletedAt.IsZero() {
		t.Error("completed_at not recorded")
	}
}

func TestSaveSpeakerMergeKeepsNonEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := "Poslanec_Jan_Novák"

	enriched := speaker.Speaker{
		StenoName: "Poslanec Jan Novák", Name: "Jan Novák", Titles: "Ing.",
		Function: "Poslanec", Sex: "Man", BirthDate: "19600203",
		Link: "/sqw/detail.sqw?id=1",
	}
	if err := s.SaveSpeaker(ctx, key, enriched); err != nil {
		t.Fatalf("SaveSpeaker: %v", err)
	}

	// A later bare stub must not clobber the enrichment.
	stub := speaker.Speaker{StenoName: "Poslanec Jan Novák", Link: "/sqw/detail.sqw?id=1"}
	if err := s.SaveSpeaker(ctx, key, stub); err != nil {
		t.Fatalf("SaveSpeaker (stub): %v", err)
	}

	dir, err := s.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	got, ok := dir.Get(key)
	if !ok {
		t.Fatal("speaker missing after merge")
	}
	if got.Name != "Jan Novák" || got.BirthDate != "19600203" {
		t.Errorf("merge lost enrichment: %+v", got)
	}
}

func TestSaveSpeakerFillsBlanks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := "Poslankyně_Eva_Svobodová"

	stub := speaker.Speaker{StenoName: "Poslankyně Eva Svobodová"}
	if err := s.SaveSpeaker(ctx, key, stub); err != nil {
		t.Fatalf("SaveSpeaker: %v", err)
	}
	enriched := stub
	enriched.Name = "Eva Svobodová"
	enriched.Sex = "Woman"
	if err := s.SaveSpeaker(ctx, key, enriched); err != nil {
		t.Fatalf("SaveSpeaker (enriched): %v", err)
	}

	_, speakers, err := s.Speakers(ctx)
	if err != nil {
		t.Fatalf("Speakers: %v", err)
	}
	if len(speakers) != 1 || speakers[0].Name != "Eva Svobodová" || speakers[0].Sex != "Woman" {
		t.Errorf("speakers = %+v", speakers)
	}
}

func TestSaveFileIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := FileRecord{
		FileName: "s_001_20150203_t_001_i_001_Poslanec_Jan_Novák.txt",
		RunID:    "run-1", Session: 1, Date: "20150203", TopicID: 1, Order: 1,
		SpeakerKey: "Poslanec_Jan_Novák", StenoName: "Poslanec Jan Novák",
	}
	if err := s.SaveFile(ctx, rec); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if err := s.SaveFile(ctx, rec); err != nil {
		t.Fatalf("SaveFile (repeat): %v", err)
	}

	n, err := s.FileCount(ctx)
	if err != nil {
		t.Fatalf("FileCount: %v", err)
	}
	if n != 1 {
		t.Errorf("FileCount = %d, want 1", n)
	}
}

func TestSaveDirectoryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dir := speaker.NewDirectory()
	dir.Register("a", speaker.Speaker{StenoName: "Poslanec A", Name: "A"})
	dir.Register("b", speaker.Speaker{StenoName: "Poslanec B"})
	if err := s.SaveDirectory(ctx, dir); err != nil {
		t.Fatalf("SaveDirectory: %v", err)
	}

	loaded, err := s.LoadDirectory(ctx)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("loaded = %d speakers, want 2", loaded.Len())
	}
}
