package backup

import "time"

func (r *Runner) SetClock(now func() time.Time) { r.now = now }
