package models

// CycleStage identifies the pipeline stage a cycle failed in.
type CycleStage string

const (
	StageAcquire   CycleStage = "acquire"
	StageExtract   CycleStage = "extract"
	StageScore     CycleStage = "score"
	StageEstimate  CycleStage = "estimate"
	StageStore     CycleStage = "store"
	StageAlert     CycleStage = "alert"
	StageRecovered CycleStage = "recovered"
)

// CycleResult is the outcome of a single monitoring cycle. The worker loop
// inspects it, logs failures, and always proceeds to the next cycle.
type CycleResult struct {
	MachineID   string       `json:"machine_id"`
	Cycle       int          `json:"cycle"`
	Observation *Observation `json:"observation,omitempty"`
	Alert       *AlertEvent  `json:"alert,omitempty"`
	Stage       CycleStage   `json:"stage,omitempty"`
	Err         error        `json:"-"`
}

func (r *CycleResult) Failed() bool {
	return r.Err != nil
}
