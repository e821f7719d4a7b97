package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/garyjia/station-report/internal/application/port"
	"github.com/garyjia/station-report/internal/domain/report"
	"github.com/garyjia/station-report/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Session is the state of one operator's report form. It is not safe for
// concurrent use; hosts serialize access.
type Session struct {
	machine workflow.StateMachine
	kind    report.Kind
	preview string

	// bumped on every select and generate so late copy results can be told apart
	generation uint64
}

// State returns the lifecycle state of the session
func (s *Session) State() workflow.State {
	return s.machine.State()
}

// Kind returns the selected report kind, or "" before the first selection
func (s *Session) Kind() report.Kind {
	return s.kind
}

// Preview returns the last rendered report, or "" if none is current
func (s *Session) Preview() string {
	return s.preview
}

// ReportService drives the select/generate/copy cycle
type ReportService struct {
	resolver  *StationResolver
	exporter  *ClipboardExporter
	formatter report.DateTimeFormatter
	metrics   port.ReportMetrics
	logger    Logger
}

type nopMetrics struct{}

func (nopMetrics) ReportGenerated(string, int) {}
func (nopMetrics) ReportCopied(string, string) {}

// NewReportService creates a new ReportService
func NewReportService(
	resolver *StationResolver,
	exporter *ClipboardExporter,
	formatter report.DateTimeFormatter,
	metrics port.ReportMetrics,
	logger Logger,
) *ReportService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ReportService{
		resolver:  resolver,
		exporter:  exporter,
		formatter: formatter,
		metrics:   metrics,
		logger:    logger,
	}
}

// NewSession creates an idle session whose GENERATE transition is guarded
// by the resolver having an effective station name
func (s *ReportService) NewSession() *Session {
	return &Session{machine: workflow.NewSessionMachine(s.stationReady)}
}

func (s *ReportService) stationReady(ctx context.Context) bool {
	_, err := s.resolver.EffectiveName()
	return err == nil
}

// SelectReportType makes kind the active report type and discards any preview
func (s *ReportService) SelectReportType(ctx context.Context, sess *Session, kind report.Kind) error {
	if err := sess.machine.Fire(ctx, workflow.TriggerSelect); err != nil {
		return fmt.Errorf("select report type: %w", err)
	}
	sess.kind = kind
	sess.preview = ""
	sess.generation++

	s.logger.Info("Report type selected", "kind", kind)
	return nil
}

// GenerateReport renders the active report type from fields and keeps it as the preview
func (s *ReportService) GenerateReport(ctx context.Context, sess *Session, fields report.FieldSet) (string, error) {
	if !sess.machine.CanFire(workflow.TriggerGenerate) {
		return "", report.ErrNoKindSelected
	}

	if err := sess.machine.Fire(ctx, workflow.TriggerGenerate); err != nil {
		if errors.Is(err, workflow.ErrGuardFailed) {
			return "", report.ErrEmptyStation
		}
		return "", fmt.Errorf("generate report: %w", err)
	}

	stationName, err := s.resolver.EffectiveName()
	if err != nil {
		return "", err
	}

	missing := fields.Missing(sess.kind)
	if len(missing) > 0 {
		s.logger.Info("Rendering report with empty fields", "kind", sess.kind, "missing", missing)
	}
	if unknown := fields.Unknown(sess.kind); len(unknown) > 0 {
		s.logger.Info("Ignoring unknown fields", "kind", sess.kind, "unknown", unknown)
	}

	text := report.Render(sess.kind, stationName, fields, s.formatter)
	sess.preview = text
	sess.generation++
	s.metrics.ReportGenerated(sess.kind.String(), len(missing))

	s.logger.Info("Report generated", "kind", sess.kind, "station", stationName, "length", len(text))
	return text, nil
}

// PendingCopy is a clipboard write started from a session snapshot
type PendingCopy struct {
	text       string
	kind       report.Kind
	generation uint64
	done       <-chan error
}

// Text returns the snapshot being copied
func (p *PendingCopy) Text() string {
	return p.text
}

// Done receives the sink result exactly once
func (p *PendingCopy) Done() <-chan error {
	return p.done
}

// StartCopy snapshots the preview and starts writing it without blocking.
// The caller may release the session while the write is in flight and must
// pass the result to FinishCopy.
func (s *ReportService) StartCopy(ctx context.Context, sess *Session) (*PendingCopy, error) {
	if !sess.State().HasPreview() || sess.preview == "" {
		return nil, report.ErrNothingToCopy
	}

	return &PendingCopy{
		text:       sess.preview,
		kind:       sess.kind,
		generation: sess.generation,
		done:       s.exporter.CopyAsync(ctx, sess.preview),
	}, nil
}

// FinishCopy applies the result of a pending copy. The session moves to
// COPIED only if it still shows the copied preview; applied is false when the
// session moved on while the write was in flight.
func (s *ReportService) FinishCopy(ctx context.Context, sess *Session, p *PendingCopy, copyErr error) (applied bool, err error) {
	if copyErr != nil {
		outcome := port.CopyOutcomeDenied
		if errors.Is(copyErr, report.ErrEmptyContent) {
			outcome = port.CopyOutcomeEmpty
		}
		s.metrics.ReportCopied(p.kind.String(), outcome)
		return false, copyErr
	}
	s.metrics.ReportCopied(p.kind.String(), port.CopyOutcomeSuccess)

	if sess.generation != p.generation || !sess.State().HasPreview() {
		s.logger.Info("Copy finished after the session moved on", "kind", p.kind, "state", sess.State())
		return false, nil
	}

	if err := sess.machine.Fire(ctx, workflow.TriggerCopy); err != nil {
		return false, fmt.Errorf("copy report: %w", err)
	}
	return true, nil
}

// CopyToClipboard copies the current preview and waits for the result.
// It returns the copied text.
func (s *ReportService) CopyToClipboard(ctx context.Context, sess *Session) (string, error) {
	p, err := s.StartCopy(ctx, sess)
	if err != nil {
		return "", err
	}

	if _, err := s.FinishCopy(ctx, sess, p, <-p.Done()); err != nil {
		return "", err
	}
	return p.text, nil
}
