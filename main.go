package main

import "github.com/hbarrett/happidex/cmd"

func main() {
	cmd.Execute()
}
