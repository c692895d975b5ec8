// Copyright © 2026 The FXLINT authors

package main

import "github.com/luthersystems/fxlint/cmd"

func main() {
	cmd.Execute()
}
