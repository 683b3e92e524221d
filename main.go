package main

import "github.com/pratama/commerce/cmd"

func main() {
	cmd.Start()
}
