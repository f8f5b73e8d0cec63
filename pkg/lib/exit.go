package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// detailer is implemented by contract and parse errors. The first line of
// Detail repeats the message; the rest locates the failure in the spec.
type detailer interface {
	Detail() string
}

// Exit prints the error and exits the program with code 1
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(1)
}

// Report writes err to w. Aggregated errors are written one by one.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	var merr *multierror.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		for _, e := range merr.Errors {
			Report(w, e)
		}
		return
	}
	fmt.Fprintln(w, "Error:", err)
	var d detailer
	if errors.As(err, &d) {
		if _, rest, ok := strings.Cut(d.Detail(), "\n"); ok && rest != "" {
			fmt.Fprint(w, strings.TrimRight(rest, "\n")+"\n")
		}
	}
}
