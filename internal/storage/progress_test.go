package storage

import (
	"io"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestProgressReporter(t *testing.T) {
	c := qt.New(t)

	var calls [][2]int64
	p := newProgressReporter(10, func(done, total int64) {
		calls = append(calls, [2]int64{done, total})
	})
	p.report(0)

	n, err := io.Copy(io.Discard, io.TeeReader(strings.NewReader("0123456789"), p))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(10))
	p.flush()

	c.Assert(calls[0], qt.Equals, [2]int64{0, 10})
	c.Assert(calls[len(calls)-1], qt.Equals, [2]int64{10, 10})
}

func TestProgressReporter_NilWithoutCallback(t *testing.T) {
	c := qt.New(t)
	c.Assert(newProgressReporter(10, nil), qt.IsNil)
}

func TestLocation(t *testing.T) {
	c := qt.New(t)
	c.Assert(Location("bucket", "backups/blog.db"), qt.Equals, "s3://bucket/backups/blog.db")
}
