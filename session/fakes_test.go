package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/spezifisch/vidplay/hls"
)

// trace records the order of resolver and engine calls across fakes.
type trace struct {
	mu    sync.Mutex
	steps []string
}

func (t *trace) add(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

func (t *trace) Steps() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.steps...)
}

type fakeSurface struct {
	mu          sync.Mutex
	sources     []string
	nativeHLS   bool
	playErr     error
	plays       int
	pauses      int
	stops       int
	currentTime float64
	volumes     []float64
	fullscreen  bool
	consumer    MediaEventConsumer
}

var _ Surface = (*fakeSurface)(nil)

func (s *fakeSurface) SetSource(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = append(s.sources, url)
	return nil
}

func (s *fakeSurface) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.sources...)
}

func (s *fakeSurface) CanPlayType(mime string) bool {
	return s.nativeHLS && mime == hls.MimeType
}

func (s *fakeSurface) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return s.playErr
}

func (s *fakeSurface) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
	return nil
}

func (s *fakeSurface) SetCurrentTime(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTime = seconds
	return nil
}

func (s *fakeSurface) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return nil
}

func (s *fakeSurface) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *fakeSurface) SetVolume(volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, volume)
	return nil
}

func (s *fakeSurface) LastVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumes[len(s.volumes)-1]
}

func (s *fakeSurface) RequestFullscreen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = true
	return nil
}

func (s *fakeSurface) ExitFullscreen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = false
	return nil
}

func (s *fakeSurface) IsFullscreen() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen, nil
}

func (s *fakeSurface) RegisterEventConsumer(consumer MediaEventConsumer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumer = consumer
}

// emit plays the surface side of a notification.
func (s *fakeSurface) emit(event MediaEvent) {
	s.mu.Lock()
	consumer := s.consumer
	s.mu.Unlock()
	consumer.SendMediaEvent(event)
}

type fakeEngine struct {
	trace     *trace
	mu        sync.Mutex
	source    string
	media     hls.Media
	destroyed int
	onParsed  []func(hls.ManifestData)
	onError   []func(hls.ErrorData)
}

func (e *fakeEngine) OnManifestParsed(fn func(hls.ManifestData)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onParsed = append(e.onParsed, fn)
}

func (e *fakeEngine) OnError(fn func(hls.ErrorData)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onError = append(e.onError, fn)
}

func (e *fakeEngine) LoadSource(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = url
	e.trace.add("load %s", url)
}

func (e *fakeEngine) AttachMedia(media hls.Media) {
	e.mu.Lock()
	e.media = media
	source := e.source
	e.mu.Unlock()
	_ = media.SetSource(source)
}

func (e *fakeEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed++
}

func (e *fakeEngine) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

func (e *fakeEngine) Live() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed == 0
}

func (e *fakeEngine) fireError(data hls.ErrorData) {
	e.mu.Lock()
	handlers := append([]func(hls.ErrorData){}, e.onError...)
	e.mu.Unlock()
	for _, fn := range handlers {
		fn(data)
	}
}

type fakeProvider struct {
	trace     *trace
	supported bool

	mu      sync.Mutex
	engines []*fakeEngine
	configs []hls.Config
}

func (p *fakeProvider) Supported() bool {
	return p.supported
}

func (p *fakeProvider) NewEngine(cfg hls.Config) StreamEngine {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trace.add("engine")
	e := &fakeEngine{trace: p.trace}
	p.engines = append(p.engines, e)
	p.configs = append(p.configs, cfg)
	return e
}

func (p *fakeProvider) Engines() []*fakeEngine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*fakeEngine{}, p.engines...)
}

func (p *fakeProvider) LiveEngines() []*fakeEngine {
	var live []*fakeEngine
	for _, e := range p.Engines() {
		if e.Live() {
			live = append(live, e)
		}
	}
	return live
}

// fakeResolver maps URLs and can hold a resolution until released.
type fakeResolver struct {
	trace   *trace
	mapping map[string]string

	mu    sync.Mutex
	calls []string
	gates map[string]chan struct{}
}

func (r *fakeResolver) Resolve(ctx context.Context, url string) string {
	r.mu.Lock()
	r.calls = append(r.calls, url)
	gate := r.gates[url]
	r.mu.Unlock()
	r.trace.add("resolve %s", url)

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return url
		}
	}
	if mapped, ok := r.mapping[url]; ok {
		return mapped
	}
	return url
}

func (r *fakeResolver) hold(url string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gates == nil {
		r.gates = make(map[string]chan struct{})
	}
	gate := make(chan struct{})
	r.gates[url] = gate
	return gate
}

func (r *fakeResolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

type recordingConsumer struct {
	mu     sync.Mutex
	events []UiEvent
}

func (c *recordingConsumer) SendEvent(event UiEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *recordingConsumer) Last(typ UiEventType) (UiEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == typ {
			return c.events[i], true
		}
	}
	return UiEvent{}, false
}

type testRig struct {
	trace    *trace
	surface  *fakeSurface
	resolver *fakeResolver
	engines  *fakeProvider
}

func newRig() *testRig {
	tr := &trace{}
	return &testRig{
		trace:    tr,
		surface:  &fakeSurface{},
		resolver: &fakeResolver{trace: tr, mapping: map[string]string{}},
		engines:  &fakeProvider{trace: tr, supported: true},
	}
}
