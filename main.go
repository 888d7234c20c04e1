// Copyright © 2026 The elnames authors

package main

import "github.com/elnames/elnames/cmd"

func main() {
	cmd.Execute()
}
