package syncx_test

import (
	"context"
	"testing"

	"github.com/mind-engage/mindengage-portal/internal/db"
	syncx "github.com/mind-engage/mindengage-portal/internal/sync"
)

func TestAppendAndListByType(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()
	repo := syncx.NewEventRepo(dbh)

	for _, e := range []syncx.Event{
		{Type: "AssignmentsSubmitted", Key: "1:a", DataJSON: `{}`},
		{Type: "Other", Key: "x", DataJSON: `{}`},
		{SiteID: "site-2", Type: "AssignmentsSubmitted", Key: "2:b", DataJSON: `{"q1":{}}`},
	} {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.ListByType(ctx, "AssignmentsSubmitted", 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Key != "1:a" || got[0].SiteID != "local" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Key != "2:b" || got[1].SiteID != "site-2" || got[1].DataJSON != `{"q1":{}}` {
		t.Errorf("second = %+v", got[1])
	}
	if got[0].Offset >= got[1].Offset || got[0].CreatedAt == 0 {
		t.Errorf("offsets/created_at not populated: %+v", got)
	}

	after, err := repo.ListByType(ctx, "AssignmentsSubmitted", got[0].Offset, 10)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].Key != "2:b" {
		t.Fatalf("after = %+v", after)
	}
}
