package rxlane

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// captureCallSite describes the caller of the lane entry point that calls it,
// as "<file basename>:<line> - <function>".
func captureCallSite() string {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}

	function := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	return filepath.Base(file) + ":" + strconv.Itoa(line) + " - " + function
}
