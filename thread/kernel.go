// File: thread/kernel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package thread

import "github.com/momentics/furi-thread/rtos"

// kernel is the OS layer every call in this package goes through.
var kernel = rtos.Default()
