package ansible

import (
	"encoding/json"
	"fmt"
)

// TaskResult is the outcome of one task against the provisionee.
type TaskResult struct {
	Name    string
	Success bool
	Changed bool
	Message string
}

// ReportError marks a report that could not be decoded. No partial report
// can be trusted, so this is always fatal for the run.
type ReportError struct {
	Reason string
	Err    error
}

func (e *ReportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unusable ansible report: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unusable ansible report: %s", e.Reason)
}

func (e *ReportError) Unwrap() error { return e.Err }

// Wire shape of the ansible.posix.json callback output, reduced to the
// fields this tool consumes. Pointers keep "absent" distinguishable from
// zero values so defaults apply only where the engine stayed silent.
type report struct {
	Plays *[]play `json:"plays"`
}

type play struct {
	Tasks *[]task `json:"tasks"`
}

type task struct {
	Task  taskMeta              `json:"task"`
	Hosts map[string]hostResult `json:"hosts"`
}

type taskMeta struct {
	Name json.RawMessage `json:"name"`
}

type hostResult struct {
	Failed      bool            `json:"failed"`
	Unreachable bool            `json:"unreachable"`
	Changed     bool            `json:"changed"`
	Msg         json.RawMessage `json:"msg"`
}

// DecodeReport turns the engine's JSON output into an ordered list of task
// results, flattening tasks across plays in document order.
func DecodeReport(data []byte) ([]TaskResult, error) {
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, &ReportError{Reason: "invalid JSON", Err: err}
	}
	if rep.Plays == nil {
		return nil, &ReportError{Reason: "missing plays array"}
	}

	var results []TaskResult
	for _, p := range *rep.Plays {
		if p.Tasks == nil {
			return nil, &ReportError{Reason: "missing tasks array in play"}
		}
		for _, t := range *p.Tasks {
			results = append(results, decodeTask(t))
		}
	}
	return results, nil
}

func decodeTask(t task) TaskResult {
	host := t.Hosts[inventoryHostname]

	return TaskResult{
		Name:    stringOr(t.Task.Name, "unnamed task"),
		Success: host.Unreachable || !host.Failed,
		Changed: host.Changed,
		Message: stringOr(host.Msg, "no details"),
	}
}

// stringOr decodes raw as a JSON string, falling back to def when the field
// is absent or not a string (the engine sometimes emits msg as a list).
func stringOr(raw json.RawMessage, def string) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return def
	}
	return s
}
