package certificate

import (
	"context"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/singleflight"
)

// Lookup finds the certificate record for a course. A nil record with a
// nil error means there is none.
type Lookup interface {
	Find(ctx context.Context, courseID string) (*Certificate, error)
}

// StaticLookup serves compiled-in records after a fixed simulated latency.
// Concurrent lookups of the same course share one wait.
type StaticLookup struct {
	Delay   time.Duration
	records map[string]Certificate
	group   singleflight.Group
}

func NewStaticLookup(records map[string]Certificate, delay time.Duration) *StaticLookup {
	if records == nil {
		records = SampleCertificates()
	}
	return &StaticLookup{Delay: delay, records: records}
}

func (l *StaticLookup) Find(ctx context.Context, courseID string) (*Certificate, error) {
	ch := l.group.DoChan(courseID, func() (interface{}, error) {
		if l.Delay > 0 {
			time.Sleep(l.Delay)
		}
		c, ok := l.records[courseID]
		if !ok {
			return (*Certificate)(nil), nil
		}
		return &c, nil
	})
	select {
	case <-ctx.Done():
		glog.V(2).Infof("certificate lookup for course %s abandoned: %v", courseID, ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c := res.Val.(*Certificate)
		if c == nil {
			return nil, nil
		}
		cp := *c
		return &cp, nil
	}
}
