package run

import (
	"encoding/json"
	"strconv"
)

type Status string

const (
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusTerminated Status = "terminated"
	StatusPending    Status = "pending"
	StatusStaged     Status = "staged"
)

// Run is a single recorded execution as served by the view backend's /runs
// endpoint. Only Status drives behavior; everything else is display data.
type Run struct {
	ID         string            `json:"id"`
	ShortID    string            `json:"shortId"`
	Dir        string            `json:"dir,omitempty"`
	Operation  string            `json:"operation"`
	OpModel    string            `json:"opModel,omitempty"`
	OpName     string            `json:"opName,omitempty"`
	Started    string            `json:"started"`
	Stopped    string            `json:"stopped"`
	Time       string            `json:"time,omitempty"`
	Label      string            `json:"label,omitempty"`
	Tags       string            `json:"tags,omitempty"`
	Comments   []json.RawMessage `json:"comments,omitempty"`
	Status     Status            `json:"status"`
	ExitStatus Text              `json:"exitStatus"`
	Command    string            `json:"command"`
	OtherAttrs map[string]any    `json:"otherAttrs,omitempty"`
	Flags      map[string]any    `json:"flags"`
	Env        map[string]string `json:"env"`
	Deps       []Dep             `json:"deps"`
	Files      []File            `json:"files"`
	SourceCode *SourceCode       `json:"sourcecode,omitempty"`
	ProjectDir string            `json:"projectDir,omitempty"`
	OpRef      *OpRef            `json:"opRef,omitempty"`
	Scalars    []ScalarSummary   `json:"scalars,omitempty"`
}

// IsTerminal reports whether the run has stopped and will not change again.
func (r *Run) IsTerminal() bool {
	switch r.Status {
	case StatusCompleted, StatusError, StatusTerminated:
		return true
	}
	return false
}

// DisplayID prefers the short ID the backend formats for humans.
func (r *Run) DisplayID() string {
	if r.ShortID != "" {
		return r.ShortID
	}
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Dep is an upstream run this run resolved files from.
type Dep struct {
	Run       string   `json:"run"`
	Operation string   `json:"operation"`
	Paths     []string `json:"paths,omitempty"`
}

// File is one entry of a run directory listing.
type File struct {
	Path        string `json:"path"`
	Size        *int64 `json:"size"`
	MTime       *int64 `json:"mtime,omitempty"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	IconTooltip string `json:"iconTooltip"`
	Viewer      Text   `json:"viewer,omitempty"`
	Operation   string `json:"operation,omitempty"`
	Run         string `json:"run,omitempty"`
}

// Viewable reports whether the file can be shown as text. Delimited
// tables are shown as their raw text.
func (f File) Viewable() bool {
	return f.Viewer == "text" || f.Viewer == "table"
}

type SourceCode struct {
	Root  string   `json:"root"`
	Files []string `json:"files"`
}

type OpRef struct {
	PkgType    string `json:"pkgType"`
	PkgName    string `json:"pkgName"`
	PkgVersion string `json:"pkgVersion"`
	ModelName  string `json:"modelName"`
	OpName     string `json:"opName"`
}

// ScalarSummary is the backend's per-tag summary of a logged scalar series.
type ScalarSummary struct {
	Run       string `json:"run,omitempty"`
	Prefix    string `json:"prefix"`
	Tag       string `json:"tag"`
	FirstVal  Scalar `json:"first_val"`
	FirstStep *int64 `json:"first_step"`
	LastVal   Scalar `json:"last_val"`
	LastStep  *int64 `json:"last_step"`
	MinVal    Scalar `json:"min_val"`
	MinStep   *int64 `json:"min_step"`
	MaxVal    Scalar `json:"max_val"`
	MaxStep   *int64 `json:"max_step"`
	AvgVal    Scalar `json:"avg_val"`
	Total     Scalar `json:"total"`
	Count     int64  `json:"count"`
}

// Text decodes any scalar JSON value (string, number, bool, null) as a string.
// The backend sends exit status as a number for finished runs and as an
// empty string otherwise.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(v))
	default:
		*t = Text(data)
	}
	return nil
}
