//go:build !linux

package treefile

import "os"

func adviseSequential(*os.File) {}
