package pipeline

import "sync"

// StepID names one stage of a processing run.
type StepID string

const (
	StepUpload     StepID = "upload"
	StepAnalyze    StepID = "analyze"
	StepTranscribe StepID = "transcribe"
	StepTranslate  StepID = "translate"
	StepComplete   StepID = "complete"
)

// StepStatus is the lifecycle state of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
	StepError     StepStatus = "error"
)

// Step is one entry in a run's progress timeline.
type Step struct {
	ID     StepID     `json:"id"`
	Status StepStatus `json:"status"`
}

// Progress tracks the ordered steps of one run. At most one step is active at
// a time; steps before it are completed and steps after it are pending. Once a
// step errors the run is terminal and further transitions are no-ops.
type Progress struct {
	mu     sync.Mutex
	steps  []Step
	failed bool
}

// NewTextProgress builds the timeline for a direct text run.
func NewTextProgress() *Progress {
	return newProgress(StepAnalyze, StepTranslate, StepComplete)
}

// NewFileProgress builds the timeline for an uploaded file run. Audio and
// video runs carry a transcribe step; document runs go straight to translate.
func NewFileProgress(withTranscription bool) *Progress {
	if withTranscription {
		return newProgress(StepUpload, StepTranscribe, StepTranslate, StepComplete)
	}
	return newProgress(StepUpload, StepTranslate, StepComplete)
}

func newProgress(ids ...StepID) *Progress {
	steps := make([]Step, len(ids))
	for i, id := range ids {
		steps[i] = Step{ID: id, Status: StepPending}
	}
	steps[0].Status = StepActive
	return &Progress{steps: steps}
}

// Advance completes the active step and activates the next one, if any.
func (p *Progress) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failed {
		return
	}
	for i := range p.steps {
		if p.steps[i].Status == StepActive {
			p.steps[i].Status = StepCompleted
			if i+1 < len(p.steps) {
				p.steps[i+1].Status = StepActive
			}
			return
		}
	}
}

// Fail marks the active step as errored. The run is terminal afterwards.
func (p *Progress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failed {
		return
	}
	for i := range p.steps {
		if p.steps[i].Status == StepActive {
			p.steps[i].Status = StepError
			p.failed = true
			return
		}
	}
}

// Steps returns a copy of the current timeline.
func (p *Progress) Steps() []Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Done reports whether every step completed.
func (p *Progress) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, st := range p.steps {
		if st.Status != StepCompleted {
			return false
		}
	}
	return true
}
