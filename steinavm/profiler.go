package steinavm

import "time"

type RecordKind int

const (
	RecordStart RecordKind = iota
	RecordStop
)

type ProfileRecord struct {
	Tag  string
	Kind RecordKind
	At   time.Time
}

// Profiler collects START/STOP phase records when attached to a
// Runtime.
type Profiler struct {
	Records []ProfileRecord

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		now: time.Now,
	}
}

func (p *Profiler) Start(tag string) {
	p.Records = append(p.Records, ProfileRecord{
		Tag:  tag,
		Kind: RecordStart,
		At:   p.now(),
	})
}

func (p *Profiler) Stop(tag string) {
	p.Records = append(p.Records, ProfileRecord{
		Tag:  tag,
		Kind: RecordStop,
		At:   p.now(),
	})
}
