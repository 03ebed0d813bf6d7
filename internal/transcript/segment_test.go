package transcript

import (
	"context"
	"strings"
	"testing"

	"stenograf/internal/markup"
	"stenograf/internal/speaker"
)

const transcriptPage = `<html><head><title>Stenografický zápis 1. schůze, 3. února 2015</title></head>
<body><div id="main-content">
<p align="center">1. schůze</p>
<center>hlavička</center>
<div><p>navigace</p></div>
<p><a id="r1" href="/sqw/detail.sqw?id=1">Poslanec Jan Novák: </a>Vážené kolegyně, zahajuji schůzi.</p>
<p>Pokračuji druhým odstavcem.</p>
<p><a id="r2" href="/sqw/hlasy.sqw?g=100">hlasování 1</a>výsledek hlasování</p>
<p>&#160;</p>
<p><a id="r3" href="/sqw/detail.sqw?id=2">Poslankyně Eva Svobodová:</a> Děkuji za slovo.</p>
</div></body></html>`

func segmentFixture(t *testing.T, content string) (map[string]Intervention, *speaker.Directory) {
	t.Helper()
	doc, err := markup.Parse(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dir := speaker.NewDirectory()
	return Segment(context.Background(), doc, dir, nil), dir
}

func TestSegmentSplitsSpeakerTurns(t *testing.T) {
	interventions, dir := segmentFixture(t, transcriptPage)

	if len(interventions) != 2 {
		t.Fatalf("interventions = %d, want 2", len(interventions))
	}

	first, ok := interventions["r1"]
	if !ok {
		t.Fatal("missing intervention r1")
	}
	if first.StenoName != "Poslanec Jan Novák" {
		t.Errorf("r1 steno name = %q", first.StenoName)
	}
	if first.SpeakerKey != "Poslanec_Jan_Novák" {
		t.Errorf("r1 speaker key = %q", first.SpeakerKey)
	}
	if strings.Contains(first.Text, "Novák") {
		t.Errorf("label anchor leaked into text: %q", first.Text)
	}
	// Paragraph order matches document order.
	zahajuji := strings.Index(first.Text, "zahajuji schůzi")
	pokracuji := strings.Index(first.Text, "druhým odstavcem")
	if zahajuji < 0 || pokracuji < 0 || pokracuji < zahajuji {
		t.Errorf("paragraphs out of order: %q", first.Text)
	}
	if strings.Contains(first.Text, "hlasování") || strings.Contains(first.Text, "výsledek") {
		t.Errorf("voting paragraph leaked into text: %q", first.Text)
	}
	if strings.Contains(first.Text, "navigace") || strings.Contains(first.Text, "hlavička") {
		t.Errorf("chrome leaked into text: %q", first.Text)
	}

	second, ok := interventions["r3"]
	if !ok {
		t.Fatal("missing intervention r3")
	}
	if second.Text != "Děkuji za slovo." {
		t.Errorf("r3 text = %q", second.Text)
	}

	if dir.Len() != 2 {
		t.Errorf("registered speakers = %d, want 2", dir.Len())
	}
	sp, ok := dir.Get("Poslanec_Jan_Novák")
	if !ok || sp.Link != "/sqw/detail.sqw?id=1" {
		t.Errorf("stub = %+v", sp)
	}
}

func TestSegmentStubNotOverwritten(t *testing.T) {
	doc, err := markup.Parse(transcriptPage)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dir := speaker.NewDirectory()
	dir.Register("Poslanec_Jan_Novák", speaker.Speaker{StenoName: "Poslanec Jan Novák", Link: "earlier-link"})
	Segment(context.Background(), doc, dir, nil)

	sp, _ := dir.Get("Poslanec_Jan_Novák")
	if sp.Link != "earlier-link" {
		t.Errorf("earlier stub overwritten: %+v", sp)
	}
}

func TestSegmentEmptyPage(t *testing.T) {
	interventions, dir := segmentFixture(t, `<html><body><div id="main-content"><p>&#160;</p></div></body></html>`)
	if len(interventions) != 0 {
		t.Errorf("interventions = %d, want 0", len(interventions))
	}
	if dir.Len() != 0 {
		t.Errorf("speakers = %d, want 0", dir.Len())
	}
}

func TestSegmentWithoutMainContent(t *testing.T) {
	interventions, _ := segmentFixture(t, `<html><body>
<p><a id="r1">Předseda PSP Karel Čech:</a> Zahajuji.</p>
</body></html>`)
	if len(interventions) != 1 {
		t.Fatalf("interventions = %d, want 1", len(interventions))
	}
	if interventions["r1"].StenoName != "Předseda PSP Karel Čech" {
		t.Errorf("steno name = %q", interventions["r1"].StenoName)
	}
}

func TestSegmentFlushesOpenTurnAtEnd(t *testing.T) {
	interventions, _ := segmentFixture(t, `<html><body><div id="main-content">
<p><a id="r9" href="/sqw/detail.sqw?id=9">Senátor Petr Malý:</a> Poslední slovo.</p>
</div></body></html>`)
	got, ok := interventions["r9"]
	if !ok {
		t.Fatal("open turn not flushed at end of page")
	}
	if got.Text != "Poslední slovo." {
		t.Errorf("text = %q", got.Text)
	}
}
