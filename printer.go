// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devserve

// Prepend creates the standard format for informational output, a string of
// the form "[key] template".
func Prepend(key, template string) string {
	return "[" + key + "] " + template
}

// PrinterFunc is a printf-style sink, such as log.Printf or the Infof method
// of a zap.SugaredLogger.
type PrinterFunc func(string, ...interface{})

// Printf invokes this function.  Note that this method does not append a newline
// to the output.
func (pf PrinterFunc) Printf(template string, args ...interface{}) {
	pf(template, args...)
}

// Write implements View.  Each event is printed as "[key] value".
func (pf PrinterFunc) Write(key string, value any, _ Config) {
	pf(Prepend(key, "%v"), value)
}

// t is implemented by both *testing.T and *testing.B
type t interface {
	Name() string
	Logf(string, ...interface{})
}

// TestView returns a View that logs every event through a *testing.T or *testing.B.
func TestView(t t) View {
	return PrinterFunc(
		func(template string, args ...interface{}) {
			t.Logf(t.Name()+" "+template, args...)
		},
	)
}
