package main

import (
	"github.com/trackio/trackio-tui-install/cmd"
)

func main() {
	cmd.Execute()
}
