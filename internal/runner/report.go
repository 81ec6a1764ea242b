package runner

import "speccheck/internal/conform"

// ComponentResult is one row of a report: the outcome for a single
// component. Exactly one of the three shapes applies: violations, clean
// (empty violations, empty error), or an error marker.
type ComponentResult struct {
	Component  string              `json:"component"`
	SpecPath   string              `json:"spec"`
	Declared   string              `json:"declared_tier,omitempty"`
	Inferred   string              `json:"inferred_tier,omitempty"`
	Violations []conform.Violation `json:"violations,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// Clean reports whether the component passed every check.
func (r ComponentResult) Clean() bool {
	return r.Error == "" && len(r.Violations) == 0
}

// Report aggregates the results of a check run.
type Report struct {
	Components []ComponentResult `json:"components"`
	Checked    int               `json:"checked"`
	Clean      int               `json:"clean"`
	Hard       int               `json:"hard_violations"`
	Soft       int               `json:"soft_violations"`
	Errors     int               `json:"errors"`
}

func (r *Report) add(res ComponentResult) {
	r.Components = append(r.Components, res)
	r.Checked++
	switch {
	case res.Error != "":
		r.Errors++
	case len(res.Violations) == 0:
		r.Clean++
	}
	for _, v := range res.Violations {
		if v.Hard {
			r.Hard++
		} else {
			r.Soft++
		}
	}
}

// ExitCode maps a report onto the process exit code. Error markers only
// abort the run when no component was analyzable at all.
func (r *Report) ExitCode(severityAll bool) int {
	if r.Checked > 0 && r.Errors == r.Checked {
		return 2
	}
	if r.Hard > 0 {
		return 1
	}
	if severityAll && r.Soft > 0 {
		return 1
	}
	return 0
}
