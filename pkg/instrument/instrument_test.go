package instrument

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/state"
)

func TestPrometheus_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithConstLabels(prometheus.Labels{"app": "demo"}))

	m.MountDone(time.Millisecond, nil)
	m.MountDone(time.Millisecond, errors.New("boom"))
	m.HydrateDone(time.Millisecond, 2, nil)
	m.FlushDone(state.FlushInfo{Cells: 3, Rerendered: 2, Duration: time.Millisecond})
	m.Mutation(dom.MutationInsert)
	m.Mutation(dom.MutationInsert)
	m.Mutation(dom.MutationSetText)
	m.HydrationMismatch(MismatchText)
	m.StaleUpdate()
	m.ControllerBound("tabs")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"mounts ok", m.mounts.WithLabelValues("ok"), 1},
		{"mounts error", m.mounts.WithLabelValues("error"), 1},
		{"hydrations", m.hydrations.WithLabelValues("ok"), 1},
		{"flushes", m.flushes.WithLabelValues("ok"), 1},
		{"rerenders", m.rerenders, 2},
		{"inserts", m.mutations.WithLabelValues(dom.MutationInsert.String()), 2},
		{"set text", m.mutations.WithLabelValues(dom.MutationSetText.String()), 1},
		{"mismatches", m.mismatches.WithLabelValues(MismatchText), 1},
		{"stale", m.stale, 1},
		{"controllers", m.controllers.WithLabelValues("tabs"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(m.duration); n != 3 {
		t.Errorf("duration series = %d, want 3", n)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "hydra_") {
			t.Errorf("metric %s outside the hydra namespace", f.GetName())
		}
		for _, metric := range f.GetMetric() {
			if !slices.ContainsFunc(metric.GetLabel(), func(l *dto.LabelPair) bool {
				return l.GetName() == "app" && l.GetValue() == "demo"
			}) {
				t.Errorf("metric %s lacks const label", f.GetName())
			}
		}
	}
}

func TestPrometheus_Namespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"), WithBuckets([]float64{0.1, 1}))
	m.StaleUpdate()

	const want = `
# HELP app_ui_stale_updates_total Total number of updates discarded on unmounted components
# TYPE app_ui_stale_updates_total counter
app_ui_stale_updates_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "app_ui_stale_updates_total"); err != nil {
		t.Error(err)
	}
}

func TestPrometheus_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg))
	defer func() {
		if recover() == nil {
			t.Error("second registration on the same registry did not panic")
		}
	}()
	Prometheus(WithRegistry(reg))
}

// recording hooks for Multi.
type recording struct {
	Nop
	calls []string
}

func (r *recording) MountDone(time.Duration, error)        { r.calls = append(r.calls, "mount") }
func (r *recording) HydrateDone(time.Duration, int, error) { r.calls = append(r.calls, "hydrate") }
func (r *recording) FlushDone(state.FlushInfo)             { r.calls = append(r.calls, "flush") }
func (r *recording) Mutation(dom.MutationKind)             { r.calls = append(r.calls, "mutation") }
func (r *recording) HydrationMismatch(string)              { r.calls = append(r.calls, "mismatch") }
func (r *recording) StaleUpdate()                          { r.calls = append(r.calls, "stale") }
func (r *recording) ControllerBound(string)                { r.calls = append(r.calls, "bound") }

func TestMulti(t *testing.T) {
	if _, ok := Multi().(Nop); !ok {
		t.Error("Multi() is not Nop")
	}
	one := &recording{}
	if Multi(nil, one) != Hooks(one) {
		t.Error("Multi with one hook should return it")
	}

	a, b := &recording{}, &recording{}
	h := Multi(a, nil, b)
	h.MountDone(0, nil)
	h.HydrateDone(0, 0, nil)
	h.FlushDone(state.FlushInfo{})
	h.Mutation(dom.MutationRemove)
	h.HydrationMismatch(MismatchNode)
	h.StaleUpdate()
	h.ControllerBound("x")

	want := []string{"mount", "hydrate", "flush", "mutation", "mismatch", "stale", "bound"}
	for _, r := range []*recording{a, b} {
		if !slices.Equal(r.calls, want) {
			t.Errorf("calls = %v, want %v", r.calls, want)
		}
	}
}

type spanRecorder struct {
	noop.TracerProvider
	spans []*recordedSpan
}

func (p *spanRecorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{p: p}
}

type recordingTracer struct {
	noop.Tracer
	p *spanRecorder
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, attrs: cfg.Attributes(), start: cfg.Timestamp()}
	t.p.spans = append(t.p.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordedSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	start  time.Time
	code   codes.Code
	err    error
	events []string
	ended  bool
}

func (s *recordedSpan) SetStatus(c codes.Code, _ string)              { s.code = c }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }
func (s *recordedSpan) AddEvent(name string, _ ...trace.EventOption)  { s.events = append(s.events, name) }
func (s *recordedSpan) End(...trace.SpanEndOption)                    { s.ended = true }

func TestOpenTelemetry_Spans(t *testing.T) {
	p := &spanRecorder{}
	tr := OpenTelemetry(WithTracerProvider(p), WithTracerName("test"))

	tr.MountDone(5*time.Millisecond, nil)
	tr.HydrateDone(time.Millisecond, 3, nil)
	tr.FlushDone(state.FlushInfo{Cells: 2, Rerendered: 1, Err: errors.New("E120")})
	tr.Mutation(dom.MutationInsert)

	if len(p.spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(p.spans))
	}
	names := []string{p.spans[0].name, p.spans[1].name, p.spans[2].name}
	if want := []string{"hydra.mount", "hydra.hydrate", "hydra.flush"}; !slices.Equal(names, want) {
		t.Errorf("span names = %v, want %v", names, want)
	}
	for _, s := range p.spans {
		if !s.ended {
			t.Errorf("span %s not ended", s.name)
		}
	}
	if p.spans[0].code != codes.Ok || p.spans[0].start.IsZero() {
		t.Errorf("mount span status %v start %v", p.spans[0].code, p.spans[0].start)
	}
	if !slices.Contains(p.spans[1].attrs, attribute.Int("hydra.mismatches", 3)) {
		t.Errorf("hydrate attrs = %v", p.spans[1].attrs)
	}
	if flush := p.spans[2]; flush.code != codes.Error || flush.err == nil {
		t.Errorf("flush span status %v err %v", flush.code, flush.err)
	}
}

func TestOpenTelemetry_EventsOnContextSpan(t *testing.T) {
	p := &spanRecorder{}
	ctx, parent := p.Tracer("").Start(context.Background(), "request")
	tr := OpenTelemetry(WithTracerProvider(p), WithContext(ctx))

	tr.HydrationMismatch(MismatchExtra)
	tr.StaleUpdate()
	tr.ControllerBound("tabs")

	want := []string{"hydra.hydration_mismatch", "hydra.stale_update", "hydra.controller_bound"}
	if got := parent.(*recordedSpan).events; !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestOpenTelemetry_DefaultsToGlobalProvider(t *testing.T) {
	tr := OpenTelemetry()
	tr.MountDone(time.Millisecond, nil)
	tr.StaleUpdate()
}
