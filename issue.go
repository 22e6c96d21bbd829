package sitemapgen

import "sort"

// IssueLog collects human-readable descriptions of recoverable problems
// encountered during a crawl. Identical issues collapse into one.
type IssueLog struct {
	issues map[string]struct{}
}

// NewIssueLog returns an empty IssueLog.
func NewIssueLog() *IssueLog {
	return &IssueLog{issues: make(map[string]struct{})}
}

// Add records the issues.
func (l *IssueLog) Add(issues ...string) {
	for _, issue := range issues {
		l.issues[issue] = struct{}{}
	}
}

// Merge adds every issue of other to l.
func (l *IssueLog) Merge(other *IssueLog) {
	if other == nil {
		return
	}
	for issue := range other.issues {
		l.issues[issue] = struct{}{}
	}
}

// Contains reports whether issue has been recorded.
func (l *IssueLog) Contains(issue string) bool {
	if l == nil {
		return false
	}
	_, ok := l.issues[issue]
	return ok
}

// Len returns the number of distinct issues.
func (l *IssueLog) Len() int {
	if l == nil {
		return 0
	}
	return len(l.issues)
}

// Issues returns the recorded issues sorted ascending.
func (l *IssueLog) Issues() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.issues))
	for issue := range l.issues {
		out = append(out, issue)
	}
	sort.Strings(out)
	return out
}
