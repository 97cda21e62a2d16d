package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/media"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
	"github.com/nguyentantai21042004/bibliosophia/internal/progress"
)

type calls struct {
	mu    sync.Mutex
	names []string
}

func (c *calls) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

func (c *calls) has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

type fakeMedia struct {
	calls     *calls
	info      models.VideoInfo
	audioPath string
	events    []progress.Event
	infoErr   error
	audioErr  error
}

func (f *fakeMedia) FetchInfo(ctx context.Context, url string) (models.VideoInfo, error) {
	f.calls.add("metadata")
	return f.info, f.infoErr
}

func (f *fakeMedia) DownloadAudio(ctx context.Context, url string, report func(progress.Event)) (string, error) {
	f.calls.add("download")
	for _, ev := range f.events {
		report(ev)
	}
	return f.audioPath, f.audioErr
}

func (f *fakeMedia) CheckDeps(ctx context.Context) media.DepsStatus {
	return media.DepsStatus{}
}

type fakeTranscriber struct {
	calls    *calls
	text     string
	err      error
	language string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	f.calls.add("transcribe")
	f.language = language
	return f.text, f.err
}

func (f *fakeTranscriber) Provider() string { return "groq" }

type fakeSummarizer struct {
	calls  *calls
	result models.SummaryResult
	err    error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, info models.VideoInfo, transcript string) (models.SummaryResult, error) {
	f.calls.add("summarize")
	return f.result, f.err
}

func (f *fakeSummarizer) Provider() string { return "anthropic" }
func (f *fakeSummarizer) Model() string    { return "claude-sonnet-4-6" }

type fakePublisher struct {
	calls *calls
	url   string
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, info models.VideoInfo, summary, transcript string) (string, error) {
	f.calls.add("publish")
	return f.url, f.err
}

type fakeSaver struct {
	calls *calls
	path  string
	dir   string
	err   error
}

func (f *fakeSaver) Save(ctx context.Context, info models.VideoInfo, summary, transcript, dir string) (string, error) {
	f.calls.add("save")
	f.dir = dir
	return f.path, f.err
}

type fixture struct {
	calls       *calls
	media       *fakeMedia
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	publisher   *fakePublisher
	saver       *fakeSaver
}

func newFixture() *fixture {
	c := &calls{}
	return &fixture{
		calls: c,
		media: &fakeMedia{
			calls:     c,
			info:      models.VideoInfo{Title: "Video", Channel: "Canal", URL: "https://youtu.be/x", Duration: 125},
			audioPath: "/tmp/audio-1/x.mp3",
		},
		transcriber: &fakeTranscriber{calls: c, text: "hola mundo"},
		summarizer:  &fakeSummarizer{calls: c, result: models.NewSummaryResult("## Resumen", 100, 50, 0.5)},
		publisher:   &fakePublisher{calls: c, url: "https://notion.so/p"},
		saver:       &fakeSaver{calls: c, path: "/out/Video.md"},
	}
}

func (f *fixture) processor(withPublisher bool) *implProcessor {
	d := Deps{
		Media:       f.media,
		Transcriber: f.transcriber,
		Summarizer:  f.summarizer,
		Saver:       f.saver,
		OutputDir:   "/out",
		Language:    "es",
		Logger:      logger.New("error", "text"),
	}
	if withPublisher {
		d.Publisher = f.publisher
	}
	return New(d).(*implProcessor)
}

func collect() (*[]progress.Event, progress.Sink) {
	var (
		mu     sync.Mutex
		events []progress.Event
	)
	return &events, progress.FuncSink(func(ev progress.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})
}

func TestProcessSuccess(t *testing.T) {
	f := newFixture()
	p := f.processor(true)

	var states []State
	p.trace = func(s State) { states = append(states, s) }

	res, err := p.Process(context.Background(), "https://youtu.be/x", Options{Save: true, Publish: true}, progress.Discard)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := models.ProcessResult{
		VideoInfo:            f.media.info,
		Transcript:           "hola mundo",
		Summary:              "## Resumen",
		TokensUsed:           150,
		AudioDurationSeconds: 125,
		CostEstimate:         0.5,
		Language:             "es",
		AudioPath:            "/tmp/audio-1/x.mp3",
		SavedPath:            "/out/Video.md",
		PageURL:              "https://notion.so/p",
	}
	if !reflect.DeepEqual(*res, want) {
		t.Errorf("result = %+v\nwant     %+v", *res, want)
	}
	if f.saver.dir != "/out" {
		t.Errorf("save dir = %q, want default /out", f.saver.dir)
	}

	wantStates := []State{StateFetchingMetadata, StateDownloading, StateTranscribing, StateSummarizing, StateSaving, StatePublishing, StateDone}
	if !reflect.DeepEqual(states, wantStates) {
		t.Errorf("states = %v, want %v", states, wantStates)
	}
}

func TestProcessCoreStageFailure(t *testing.T) {
	tests := []struct {
		name      string
		inject    func(f *fixture, err error)
		err       error
		wantKind  apperror.Kind
		wantCalls []string
		notCalled []string
	}{
		{
			name:      "transcribe classified",
			inject:    func(f *fixture, err error) { f.transcriber.err = err },
			err:       apperror.New(apperror.PayloadTooLarge, "El archivo de audio supera 25 MB."),
			wantKind:  apperror.PayloadTooLarge,
			wantCalls: []string{"metadata", "download", "transcribe"},
			notCalled: []string{"summarize", "publish", "save"},
		},
		{
			name:      "transcribe unclassified gets stage kind",
			inject:    func(f *fixture, err error) { f.transcriber.err = err },
			err:       errors.New("connection reset"),
			wantKind:  apperror.NetworkFailure,
			wantCalls: []string{"transcribe"},
			notCalled: []string{"summarize", "publish", "save"},
		},
		{
			name:      "metadata",
			inject:    func(f *fixture, err error) { f.media.infoErr = err },
			err:       apperror.New(apperror.ToolMissing, "yt-dlp no encontrado."),
			wantKind:  apperror.ToolMissing,
			wantCalls: []string{"metadata"},
			notCalled: []string{"download", "transcribe", "summarize"},
		},
		{
			name:      "download",
			inject:    func(f *fixture, err error) { f.media.audioErr = err },
			err:       errors.New("exit status 1"),
			wantKind:  apperror.ToolFailure,
			wantCalls: []string{"download"},
			notCalled: []string{"transcribe", "summarize"},
		},
		{
			name:      "summarize",
			inject:    func(f *fixture, err error) { f.summarizer.err = err },
			err:       apperror.New(apperror.InvalidCredential, "API key de Anthropic inválida."),
			wantKind:  apperror.InvalidCredential,
			wantCalls: []string{"summarize"},
			notCalled: []string{"publish", "save"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.inject(f, tt.err)
			p := f.processor(true)

			var last State
			p.trace = func(s State) { last = s }

			res, err := p.Process(context.Background(), "u", Options{Save: true, Publish: true}, progress.Discard)
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if got := apperror.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
			if err == nil || err.Error() != tt.err.Error() {
				t.Errorf("message = %v, want %q", err, tt.err.Error())
			}
			if last != StateFailed {
				t.Errorf("final state = %v, want failed", last)
			}
			for _, c := range tt.wantCalls {
				if !f.calls.has(c) {
					t.Errorf("%s was not called", c)
				}
			}
			for _, c := range tt.notCalled {
				if f.calls.has(c) {
					t.Errorf("%s should not have run", c)
				}
			}
		})
	}
}

func TestProcessBranchIndependence(t *testing.T) {
	saveErr := apperror.New(apperror.IOFailure, "Error guardando archivo: disco lleno")
	pubErr := apperror.New(apperror.NotFound, "Database ID no encontrado.")

	tests := []struct {
		name      string
		saveErr   error
		pubErr    error
		wantSaved string
		wantPage  string
		wantKinds []apperror.Kind
	}{
		{"save fails", saveErr, nil, "", "https://notion.so/p", []apperror.Kind{apperror.IOFailure}},
		{"publish fails", nil, pubErr, "/out/Video.md", "", []apperror.Kind{apperror.NotFound}},
		{"both fail", saveErr, pubErr, "", "", []apperror.Kind{apperror.IOFailure, apperror.NotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.saver.err = tt.saveErr
			f.publisher.err = tt.pubErr
			p := f.processor(true)

			res, err := p.Process(context.Background(), "u", Options{Save: true, Publish: true}, progress.Discard)
			if err == nil {
				t.Fatal("Process() error = nil")
			}
			if res == nil {
				t.Fatal("result should survive a branch failure")
			}
			if res.SavedPath != tt.wantSaved || res.PageURL != tt.wantPage {
				t.Errorf("saved = %q page = %q", res.SavedPath, res.PageURL)
			}
			if !f.calls.has("save") || !f.calls.has("publish") {
				t.Error("both branches should run")
			}
			for _, k := range tt.wantKinds {
				target := saveErr
				if k == apperror.NotFound {
					target = pubErr
				}
				if !errors.Is(err, target) {
					t.Errorf("error %v does not carry %v", err, k)
				}
			}
		})
	}
}

func TestProcessNotionSkipped(t *testing.T) {
	f := newFixture()
	p := f.processor(false)
	events, sink := collect()

	res, err := p.Process(context.Background(), "u", Options{Publish: true}, sink)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.PageURL != "" || f.calls.has("publish") || f.calls.has("save") {
		t.Errorf("publish/save should be skipped: %+v", res)
	}

	found := false
	for _, ev := range *events {
		if ev.Stage == progress.StagePublish && strings.Contains(ev.Message, "Notion omitido") {
			found = true
		}
	}
	if !found {
		t.Error("missing Notion skip warning event")
	}
}

func TestProcessOptionsOverride(t *testing.T) {
	f := newFixture()
	p := f.processor(true)

	res, err := p.Process(context.Background(), "u", Options{Save: true, OutputDir: "/custom", Language: "en"}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if f.saver.dir != "/custom" {
		t.Errorf("save dir = %q", f.saver.dir)
	}
	if f.transcriber.language != "en" || res.Language != "en" {
		t.Errorf("language = %q / %q", f.transcriber.language, res.Language)
	}
}

func TestProcessProgress(t *testing.T) {
	f := newFixture()
	f.media.events = []progress.Event{
		{Stage: progress.StageDownload, Message: "Descargando audio... 10%", Percent: progress.Pct(10)},
		{Stage: progress.StageDownload, Message: "Descargando audio... 50%", Percent: progress.Pct(50)},
		{Stage: progress.StageDownload, Message: "Descargando audio... 20%", Percent: progress.Pct(20)},
		{Stage: progress.StageDownload, Message: "Convirtiendo a MP3...", Percent: progress.Pct(95)},
	}
	p := f.processor(true)
	events, sink := collect()

	if _, err := p.Process(context.Background(), "u", Options{Save: true, Publish: true}, sink); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	last := map[progress.Stage]float64{}
	order := []progress.Stage{}
	for _, ev := range *events {
		if len(order) == 0 || order[len(order)-1] != ev.Stage {
			order = append(order, ev.Stage)
		}
		if ev.Percent == nil {
			continue
		}
		if *ev.Percent < last[ev.Stage] {
			t.Errorf("%s went backwards: %v after %v", ev.Stage, *ev.Percent, last[ev.Stage])
		}
		last[ev.Stage] = *ev.Percent
	}

	wantOrder := []progress.Stage{
		progress.StageMetadata, progress.StageDownload, progress.StageTranscribe,
		progress.StageSummarize, progress.StageSave, progress.StagePublish,
	}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Errorf("stage order = %v, want %v", order, wantOrder)
	}
	for _, s := range wantOrder {
		if last[s] != 100 {
			t.Errorf("%s did not finish at 100%%", s)
		}
	}

	first := (*events)[0]
	if first.Stage != progress.StageMetadata || first.Percent != nil {
		t.Errorf("first event = %+v", first)
	}

	var download []string
	for _, ev := range *events {
		if ev.Stage == progress.StageDownload {
			download = append(download, ev.Message)
		}
	}
	wantDownload := []string{
		"Iniciando descarga de audio...",
		"Descargando audio... 10%",
		"Descargando audio... 50%",
		"Descargando audio... 20%",
		"Convirtiendo a MP3...",
		"Audio descargado correctamente.",
	}
	if !reflect.DeepEqual(download, wantDownload) {
		t.Errorf("download events = %q, want %q", download, wantDownload)
	}
}

func TestProcessProgressKeepsLateMessages(t *testing.T) {
	f := newFixture()
	f.media.events = []progress.Event{
		{Stage: progress.StageDownload, Message: "Descargando audio... 50%", Percent: progress.Pct(50)},
		{Stage: progress.StageDownload, Message: "Descargando audio... 100%", Percent: progress.Pct(100)},
		{Stage: progress.StageDownload, Message: "Convirtiendo a MP3...", Percent: progress.Pct(95)},
	}
	p := f.processor(false)
	events, sink := collect()

	if _, err := p.Process(context.Background(), "u", Options{}, sink); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	var converting *progress.Event
	for i, ev := range *events {
		if ev.Stage == progress.StageDownload && ev.Message == "Convirtiendo a MP3..." {
			converting = &(*events)[i]
		}
	}
	if converting == nil {
		t.Fatal("conversion message was not delivered")
	}
	if converting.Percent == nil || *converting.Percent != 100 {
		t.Errorf("conversion percent = %v, want 100", converting.Percent)
	}
}

func TestCleanup(t *testing.T) {
	dir, err := os.MkdirTemp(t.TempDir(), audioDirPrefix+"*")
	if err != nil {
		t.Fatal(err)
	}
	audio := filepath.Join(dir, "x.mp3")
	if err := os.WriteFile(audio, []byte("mp3"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newFixture().processor(false)
	res := &models.ProcessResult{AudioPath: audio}
	if err := p.Cleanup(res); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("audio dir still exists: %v", err)
	}
	if res.AudioPath != "" {
		t.Errorf("AudioPath = %q", res.AudioPath)
	}

	if err := p.Cleanup(nil); err != nil {
		t.Errorf("Cleanup(nil) error = %v", err)
	}
	if err := p.Cleanup(&models.ProcessResult{AudioPath: filepath.Join(t.TempDir(), "gone.mp3")}); err != nil {
		t.Errorf("Cleanup() of missing file error = %v", err)
	}
}

func TestStateString(t *testing.T) {
	if StateFetchingMetadata.String() != "fetching_metadata" || State(99).String() != "unknown" {
		t.Error("unexpected State names")
	}
}
