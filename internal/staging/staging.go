// Package staging holds the candidate .med files chosen before an upload.
package staging

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/abelbrown/medview/internal/notify"
	"github.com/abelbrown/medview/internal/otel"
)

// Extension is the only accepted file suffix (case-sensitive).
const Extension = ".med"

// ValidationMessage is raised when a selection holds no .med file.
const ValidationMessage = "Please select valid .med files"

// Candidate is a file offered by a drop, paste or prompt.
type Candidate struct {
	Name string
	Path string
	Size int64
}

// StagedFile is an accepted candidate. ID is unique for the lifetime of
// the list, so entries with equal names stay individually removable.
type StagedFile struct {
	ID   int
	Name string
	Path string
	Size int64
}

// List is the staging list. It is only touched from the Update loop.
type List struct {
	files         []StagedFile
	nextID        int
	submitEnabled bool
	notifier      notify.Notifier
	events        *otel.Logger
}

// New creates an empty list that reports validation failures to n.
func New(n notify.Notifier, events *otel.Logger) *List {
	return &List{notifier: n, events: events}
}

// Valid reports whether name carries the accepted extension.
func Valid(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// AddCandidates appends every candidate whose name ends in .med, in order.
// Names are not deduplicated. When nothing qualifies the list is left
// untouched and exactly one validation notification is raised.
func (l *List) AddCandidates(cands []Candidate) (added int, cmd tea.Cmd) {
	valid := lo.Filter(cands, func(c Candidate, _ int) bool { return Valid(c.Name) })
	if len(valid) == 0 {
		l.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindStageReject, Comp: "staging", Count: len(cands)})
		if l.notifier == nil {
			return 0, nil
		}
		return 0, l.notifier.Notify(ValidationMessage)
	}

	for _, c := range valid {
		l.nextID++
		l.files = append(l.files, StagedFile{ID: l.nextID, Name: c.Name, Path: c.Path, Size: c.Size})
	}
	l.recompute()
	l.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStageAdd, Comp: "staging", Count: len(valid)})
	return len(valid), nil
}

// Remove drops the entry with the given id. Unknown or already-removed
// ids are ignored.
func (l *List) Remove(id int) bool {
	_, idx, ok := lo.FindIndexOf(l.files, func(f StagedFile) bool { return f.ID == id })
	if !ok {
		return false
	}
	l.files = append(l.files[:idx], l.files[idx+1:]...)
	l.recompute()
	l.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindStageRemove, Comp: "staging", Count: 1})
	return true
}

// Clear empties the list.
func (l *List) Clear() {
	l.files = nil
	l.recompute()
}

func (l *List) recompute() {
	l.submitEnabled = len(l.files) > 0
}

// SubmitEnabled is true iff the list is non-empty.
func (l *List) SubmitEnabled() bool {
	return l.submitEnabled
}

// Files returns a copy of the staged files in arrival order.
func (l *List) Files() []StagedFile {
	out := make([]StagedFile, len(l.files))
	copy(out, l.files)
	return out
}

// Len returns the number of staged files.
func (l *List) Len() int {
	return len(l.files)
}

// TotalSize sums the sizes of all staged files.
func (l *List) TotalSize() int64 {
	return lo.SumBy(l.files, func(f StagedFile) int64 { return f.Size })
}
