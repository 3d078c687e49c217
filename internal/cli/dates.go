package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// dateValue is a pflag.Value for an optional calendar date. "none" or an
// empty string clears it.
type dateValue struct {
	target **time.Time
}

func (d dateValue) String() string {
	if d.target == nil || *d.target == nil {
		return ""
	}
	return (*d.target).Format(dateLayout)
}

func (d dateValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		*d.target = nil
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD or none, got %q", s)
	}
	*d.target = &t
	return nil
}

func (d dateValue) Type() string {
	return "date"
}

func dateVar(fs *pflag.FlagSet, target **time.Time, name, usage string) {
	fs.Var(dateValue{target: target}, name, usage+" (YYYY-MM-DD or none)")
}

// scheduleFlags binds --available, --start and --end.
type scheduleFlags struct {
	available, start, end *time.Time
}

func (f *scheduleFlags) register(fs *pflag.FlagSet) {
	dateVar(fs, &f.available, "available", "Earliest availability date")
	dateVar(fs, &f.start, "start", "Start date")
	dateVar(fs, &f.end, "end", "Completion date; none means still open")
}
