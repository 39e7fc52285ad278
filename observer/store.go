package observer

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stlref/stlref"
)

// ObservedStore wraps a stlref.Store with OTEL instrumentation.
type ObservedStore struct {
	inner stlref.Store
	inst  *Instruments
}

var _ stlref.Store = (*ObservedStore)(nil)

// WrapStore returns an instrumented store that emits traces and metrics.
func WrapStore(inner stlref.Store, inst *Instruments) *ObservedStore {
	return &ObservedStore{inner: inner, inst: inst}
}

func (o *ObservedStore) Init(ctx context.Context) error {
	ctx, span := o.inst.Tracer.Start(ctx, "store.init")
	defer span.End()

	err := o.inner.Init(ctx)
	recordErr(span, err)
	return err
}

func (o *ObservedStore) PutTopic(ctx context.Context, t stlref.Topic) error {
	ctx, span := o.inst.Tracer.Start(ctx, "store.put_topic", trace.WithAttributes(
		AttrTopic.String(t.Slug),
		AttrEntries.Int(len(t.Entries)),
	))
	defer span.End()

	err := o.inner.PutTopic(ctx, t)
	recordErr(span, err)
	o.inst.Syncs.Add(ctx, 1, metric.WithAttributes(
		AttrTopic.String(t.Slug),
		AttrStatus.String(status(err)),
	))
	return err
}

func (o *ObservedStore) ListTopics(ctx context.Context) ([]stlref.Topic, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "store.list_topics")
	defer span.End()

	topics, err := o.inner.ListTopics(ctx)
	recordErr(span, err)
	return topics, err
}

func (o *ObservedStore) GetEntry(ctx context.Context, slug, name string) (stlref.Entry, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "store.get_entry", trace.WithAttributes(
		AttrTopic.String(slug),
		AttrOperation.String(name),
	))
	defer span.End()
	start := time.Now()

	entry, err := o.inner.GetEntry(ctx, slug, name)

	o.inst.LookupDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	o.inst.Lookups.Add(ctx, 1, metric.WithAttributes(
		AttrTopic.String(slug),
		AttrStatus.String(status(err)),
	))

	var nf *stlref.NotFoundError
	if errors.As(err, &nf) {
		// A miss is a data point, not a trace error.
		o.inst.LookupMisses.Add(ctx, 1, metric.WithAttributes(AttrTopic.String(slug)))
		return entry, err
	}
	recordErr(span, err)
	return entry, err
}

func (o *ObservedStore) ListEntries(ctx context.Context, slug string) ([]stlref.Entry, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "store.list_entries", trace.WithAttributes(
		AttrTopic.String(slug),
	))
	defer span.End()

	entries, err := o.inner.ListEntries(ctx, slug)
	recordErr(span, err)
	span.SetAttributes(AttrEntries.Int(len(entries)))
	return entries, err
}

func (o *ObservedStore) CountEntries(ctx context.Context, slug string) (int, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "store.count_entries", trace.WithAttributes(
		AttrTopic.String(slug),
	))
	defer span.End()

	n, err := o.inner.CountEntries(ctx, slug)
	recordErr(span, err)
	return n, err
}

func (o *ObservedStore) SearchEntries(ctx context.Context, query string, limit int) ([]stlref.Entry, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "store.search_entries", trace.WithAttributes(
		AttrQuery.String(query),
	))
	defer span.End()
	start := time.Now()

	entries, err := o.inner.SearchEntries(ctx, query, limit)

	o.inst.SearchDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	o.inst.Searches.Add(ctx, 1, metric.WithAttributes(AttrStatus.String(status(err))))

	recordErr(span, err)
	span.SetAttributes(AttrResults.Int(len(entries)))
	return entries, err
}

func (o *ObservedStore) Close() error {
	return o.inner.Close()
}

func recordErr(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
