package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var DebugEnabled bool

// Output receives Infof lines; warnings and errors go to ErrOutput.
var (
	Output    io.Writer = os.Stdout
	ErrOutput io.Writer = os.Stderr
)

var (
	debugColor = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
)

// Debugf prints messages only if DebugEnabled is true
func Debugf(format string, args ...interface{}) {
	if DebugEnabled {
		debugColor.Fprintf(ErrOutput, "[DEBUG] "+format+"\n", args...)
	}
}

// Infof prints messages always (standard output)
func Infof(format string, args ...interface{}) {
	fmt.Fprintf(Output, format+"\n", args...)
}

func Warnf(format string, args ...interface{}) {
	warnColor.Fprintf(ErrOutput, "Warning: "+format+"\n", args...)
}

func Errorf(format string, args ...interface{}) {
	errColor.Fprintf(ErrOutput, "Error: "+format+"\n", args...)
}

// DisableColor turns off ANSI output for every printer in the process
func DisableColor() {
	color.NoColor = true
}
