// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command histrun runs the reference minimizers on test functions under a
// chosen display.
//
//	histrun minimize --algo cg --func rosenbrock --mode summary
//	histrun minimize --algo newton --func cosine --x0 3 --mode debug
//	HISTORY_MODE=verbose HISTORY_MAX_DEPTH=2 histrun minimize --metrics
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
