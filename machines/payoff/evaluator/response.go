package evaluator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/robbyt/go-payoffscript/execution/data"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// Response is the result of one payoff run. It implements
// engine.EvaluatorResponse; the full vm.Result, with payments and final
// variables, is available through GetResult.
type Response struct {
	result      vm.Result
	execTime    time.Duration
	scriptExeID string
	runID       string
}

func newEvalResult(
	result vm.Result,
	execTime time.Duration,
	versionID string,
	runID string,
) *Response {
	return &Response{
		result:      result,
		execTime:    execTime,
		scriptExeID: versionID,
		runID:       runID,
	}
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{Value: %s, Payments: %d, ExecTime: %s, ScriptExeID: %s, RunID: %s}",
		r.Inspect(), len(r.result.Payments), r.execTime, r.scriptExeID, r.runID)
}

// Type is always data.FLOAT: a run's value is the value of its last statement.
func (r *Response) Type() data.Types {
	return data.FLOAT
}

func (r *Response) Inspect() string {
	return strconv.FormatFloat(r.result.Value, 'g', -1, 64)
}

// Interface returns the run's value as a float64.
func (r *Response) Interface() any {
	return r.result.Value
}

func (r *Response) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *Response) GetExecTime() string {
	return r.execTime.String()
}

// GetResult returns the run's value, payments, variables and substitution count.
func (r *Response) GetResult() vm.Result {
	return r.result
}

// GetRunID returns the UUID assigned to this run.
func (r *Response) GetRunID() string {
	return r.runID
}
