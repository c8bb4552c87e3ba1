package approval

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/orchestrator"
	"github.com/rs/zerolog"
)

// Request asks for confirmation before a plan step is dispatched
type Request struct {
	Tool    string            `json:"tool"`
	Purpose string            `json:"purpose"`
	Step    int               `json:"step"`  // 1-based position in the plan
	Total   int               `json:"total"` // number of steps in the plan
	Timeout time.Duration     `json:"timeout"`
	Context map[string]string `json:"context"`
}

// Response is the answer to a Request
type Response struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}

// Handler handles approval requests
type Handler interface {
	RequestApproval(ctx context.Context, req Request) (Response, error)
}

// Decision is the outcome of reviewing a plan.
// Cleared steps may be dispatched in order; Blocked steps must not run.
type Decision struct {
	Cleared []orchestrator.ExecutionStep `json:"cleared"`
	Blocked []orchestrator.ExecutionStep `json:"blocked"`
	Reason  string                       `json:"reason,omitempty"`
}

// Complete reports whether every step was cleared
func (d Decision) Complete() bool {
	return len(d.Blocked) == 0
}

// Auditor records the outcome of every confirmation request
type Auditor interface {
	RecordApproval(ctx context.Context, tool string, approved bool, reason string)
}

// Manager manages the confirmation workflow for execution plans
type Manager struct {
	handler        Handler
	defaultTimeout time.Duration
	logger         zerolog.Logger
	auditor        Auditor
}

// NewManager creates a new approval manager
func NewManager(handler Handler, logger zerolog.Logger) *Manager {
	return &Manager{
		handler:        handler,
		defaultTimeout: 60 * time.Second,
		logger:         logger,
	}
}

// SetDefaultTimeout sets the default timeout for approval requests
func (m *Manager) SetDefaultTimeout(timeout time.Duration) {
	m.defaultTimeout = timeout
}

// SetAuditor sets the auditor that receives every answer, including
// failures and timeouts
func (m *Manager) SetAuditor(auditor Auditor) {
	m.auditor = auditor
}

func (m *Manager) audit(ctx context.Context, tool string, approved bool, reason string) {
	if m.auditor != nil {
		m.auditor.RecordApproval(ctx, tool, approved, reason)
	}
}

// GetDefaultTimeout returns the default timeout
func (m *Manager) GetDefaultTimeout() time.Duration {
	return m.defaultTimeout
}

// RequestApproval asks the handler to confirm one step.
// Returns an error if the request fails or times out.
func (m *Manager) RequestApproval(ctx context.Context, req Request) (bool, error) {
	if m.handler == nil {
		return false, errors.New("no approval handler configured")
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = m.defaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m.logger.Info().
		Str("tool", req.Tool).
		Int("step", req.Step).
		Msg("Requesting confirmation")

	responseChan := make(chan Response, 1)
	errorChan := make(chan error, 1)

	go func() {
		response, err := m.handler.RequestApproval(timeoutCtx, req)
		if err != nil {
			errorChan <- err
		} else {
			responseChan <- response
		}
	}()

	select {
	case response := <-responseChan:
		if response.Approved {
			m.logger.Info().
				Str("tool", req.Tool).
				Str("reason", response.Reason).
				Msg("Step confirmed")
		} else {
			m.logger.Warn().
				Str("tool", req.Tool).
				Str("reason", response.Reason).
				Msg("Step rejected")
		}
		m.audit(ctx, req.Tool, response.Approved, response.Reason)
		return response.Approved, nil

	case err := <-errorChan:
		m.logger.Error().
			Err(err).
			Str("tool", req.Tool).
			Msg("Confirmation request failed")
		m.audit(ctx, req.Tool, false, err.Error())
		return false, errors.Wrap(err, "approval request failed")

	case <-timeoutCtx.Done():
		m.logger.Warn().
			Str("tool", req.Tool).
			Dur("timeout", timeout).
			Msg("Confirmation request timed out")
		err := errors.Newf("approval request timed out after %v", timeout)
		m.audit(ctx, req.Tool, false, err.Error())
		return false, err
	}
}

// Review walks steps in order and asks for confirmation on every step that
// requires it. Steps up to the first rejected one are cleared; the rejected
// step and everything after it are blocked.
func (m *Manager) Review(ctx context.Context, steps []orchestrator.ExecutionStep) (Decision, error) {
	decision := Decision{
		Cleared: make([]orchestrator.ExecutionStep, 0, len(steps)),
		Blocked: []orchestrator.ExecutionStep{},
	}

	for i, step := range steps {
		if !step.RequiresConfirmation {
			decision.Cleared = append(decision.Cleared, step)
			continue
		}

		approved, err := m.RequestApproval(ctx, Request{
			Tool:    step.ToolName,
			Purpose: step.Purpose,
			Step:    i + 1,
			Total:   len(steps),
			Context: map[string]string{"store_as": step.StoreAs},
		})
		if err != nil || !approved {
			decision.Blocked = append(decision.Blocked, steps[i:]...)
			decision.Reason = "rejected: " + step.ToolName
			if err != nil {
				decision.Reason = err.Error()
			}
			return decision, err
		}
		decision.Cleared = append(decision.Cleared, step)
	}

	return decision, nil
}
